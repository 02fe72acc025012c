// Package keyring keeps the PostgreSQL connection string for the journal in
// the OS keyring, so a password never has to live in the config file.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/dayreview/internal/constants"
)

var (
	ErrNotFound           = errors.New("no connection string in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// State describes what the keyring holds for dayreview.
type State int

const (
	Unavailable State = iota
	Empty
	Stored
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Stored:
		return "connection string stored"
	default:
		return "unavailable"
	}
}

// Status reports whether the keyring can be reached and holds a connection
// string. The error is set only for Unavailable.
func Status() (State, error) {
	_, err := GetConnectionString()
	switch {
	case err == nil:
		return Stored, nil
	case errors.Is(err, ErrNotFound):
		return Empty, nil
	default:
		return Unavailable, err
	}
}

// Holds reports whether connStr is exactly the stored connection string.
// Connection strings carrying a password are only accepted from there.
func Holds(connStr string) bool {
	stored, err := GetConnectionString()
	return err == nil && stored == connStr
}

func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// DeleteConnectionString returns ErrNotFound when nothing was stored.
func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}
