package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/dayreview/internal/backup"
	"github.com/julianstephens/dayreview/internal/calendar"
	"github.com/julianstephens/dayreview/internal/config"
	"github.com/julianstephens/dayreview/internal/logger"
	"github.com/julianstephens/dayreview/internal/review"
	"github.com/julianstephens/dayreview/internal/storage"
)

// ErrNeedsConfirmation is returned by destructive commands run without a
// terminal and without --yes.
var ErrNeedsConfirmation = errors.New("refusing to continue without confirmation, pass --yes")

var ErrSQLiteOnly = errors.New("this command is only available for SQLite databases")

type Context struct {
	Ctx      context.Context
	Config   config.Config
	Store    storage.Provider
	Service  *review.Service
	Out      io.Writer
	// AssumeYes skips interactive confirmation.
	AssumeYes bool
	// Interactive reports whether stdin is a terminal. Defaults to an isatty check.
	Interactive func() bool
}

func (c *Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...) //nolint:errcheck
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...) //nolint:errcheck
}

func (c *Context) isInteractive() bool {
	if c.Interactive != nil {
		return c.Interactive()
	}
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Confirm asks the user to approve a destructive action.
func (c *Context) Confirm(title, description string) (bool, error) {
	if c.AssumeYes {
		return true, nil
	}
	if !c.isInteractive() {
		return false, ErrNeedsConfirmation
	}

	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

// DatabasePath returns the SQLite file path, or ErrSQLiteOnly for PostgreSQL.
func (c *Context) DatabasePath() (string, error) {
	if c.Config.IsPostgres() {
		return "", ErrSQLiteOnly
	}
	return c.Store.GetConfigPath(), nil
}

// PerformAutomaticBackup snapshots a SQLite database before a destructive
// change. Failures are logged and otherwise ignored.
func (c *Context) PerformAutomaticBackup() {
	path, err := c.DatabasePath()
	if err != nil {
		return
	}
	if _, err := backup.NewManager(path).Create(c.Context()); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveDate accepts YYYY-MM-DD or one of today, tomorrow and yesterday.
// An empty string means today.
func (c *Context) ResolveDate(s string) (string, error) {
	today := c.Service.Today()
	switch s {
	case "", "today":
		return today, nil
	case "tomorrow", "yesterday":
		t, err := calendar.ParseDate(today)
		if err != nil {
			return "", err
		}
		if s == "tomorrow" {
			return calendar.FormatDate(t.AddDate(0, 0, 1)), nil
		}
		return calendar.FormatDate(t.AddDate(0, 0, -1)), nil
	}
	if _, err := calendar.ParseDate(s); err != nil {
		return "", err
	}
	return s, nil
}
