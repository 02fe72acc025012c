// Package sqlite implements storage.Provider on an embedded SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/dayreview/internal/logger"
	"github.com/julianstephens/dayreview/internal/migration"
	"github.com/julianstephens/dayreview/internal/storage"
	"github.com/julianstephens/dayreview/migrations"
)

type Store struct {
	path string
	db   *sql.DB
	// Close keeps db in place so a late query fails with
	// "sql: database is closed" instead of dereferencing nil.
	closed bool
}

var _ storage.Provider = (*Store)(nil)

type scannable interface {
	Scan(...any) error
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil || s.closed {
		db, err := open(s.path)
		if err != nil {
			return err
		}
		s.db = db
		s.closed = false
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil && !s.closed {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s does not exist", storage.ErrNotInitialized, s.path)
	}

	db, err := open(s.path)
	if err != nil {
		return err
	}
	s.db = db
	s.closed = false

	return s.validateSchemaVersion()
}

func (s *Store) Close() error {
	if s.db == nil || s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// Migrate applies pending schema migrations and returns how many ran.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(logFn)
}

func open(path string) (*sql.DB, error) {
	// a single connection serializes writers and keeps the busy handler out of the way
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.DriverSQLite), nil
}

func (s *Store) runMigrations() error {
	_, err := s.Migrate(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}
