// Package config resolves dayreview settings from flags, the environment,
// the dotenv config file and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/dayreview/internal/constants"
	"github.com/julianstephens/dayreview/internal/keyring"
	"github.com/julianstephens/dayreview/internal/logger"
)

const (
	EnvDatabase = constants.EnvPrefix + "DB"
	EnvLogLevel = constants.EnvPrefix + "LOG_LEVEL"
	EnvLogDir   = constants.EnvPrefix + "LOG_DIR"
	EnvTimezone = constants.EnvPrefix + "TIMEZONE"
)

type Config struct {
	ConfigDir string
	EnvFile   string
	Database  string
	LogLevel  string
	LogDir    string
	Timezone  string
}

// Overrides carries values given explicitly on the command line.
type Overrides struct {
	Database string
	LogLevel string
	Timezone string
}

// Options controls where configuration is read from.
type Options struct {
	ConfigDir string
	Overrides Overrides
	// ConnectionLookup returns a stored database connection string. Defaults to the OS keyring.
	ConnectionLookup func() (string, error)
}

// Load resolves the configuration, creating the dotenv file with defaults on first run.
func Load(opts Options) (Config, error) {
	configDir, err := ExpandHome(opts.ConfigDir)
	if err != nil {
		return Config{}, err
	}
	if configDir == "" {
		if configDir, err = ExpandHome(constants.DefaultConfigDir); err != nil {
			return Config{}, err
		}
	}

	envFile := filepath.Join(configDir, constants.DefaultEnvFileName)
	if err := ensureEnvFile(envFile); err != nil {
		return Config{}, err
	}

	fileVals, err := godotenv.Read(envFile)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", envFile, err)
	}

	cfg := Config{
		ConfigDir: configDir,
		EnvFile:   envFile,
		Database:  coalesce(opts.Overrides.Database, os.Getenv(EnvDatabase), fileVals[EnvDatabase]),
		LogLevel:  coalesce(opts.Overrides.LogLevel, os.Getenv(EnvLogLevel), fileVals[EnvLogLevel], constants.DefaultLogLevel),
		LogDir:    coalesce(os.Getenv(EnvLogDir), fileVals[EnvLogDir], filepath.Join(configDir, "logs")),
		Timezone:  coalesce(opts.Overrides.Timezone, os.Getenv(EnvTimezone), fileVals[EnvTimezone], "Local"),
	}

	if cfg.Database == "" {
		lookup := opts.ConnectionLookup
		if lookup == nil {
			lookup = keyring.GetConnectionString
		}
		connStr, err := lookup()
		switch {
		case err == nil:
			cfg.Database = connStr
		case !errors.Is(err, keyring.ErrNotFound):
			logger.Debug("keyring lookup failed", "error", err)
		}
	}
	if cfg.Database == "" {
		cfg.Database = filepath.Join(configDir, constants.DefaultDBName)
	}
	if cfg.Database, err = ExpandHome(cfg.Database); err != nil {
		return Config{}, err
	}
	if cfg.LogDir, err = ExpandHome(cfg.LogDir); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// IsPostgres reports whether the database setting is a PostgreSQL connection URL.
func (c Config) IsPostgres() bool {
	return IsPostgresURL(c.Database)
}

// IsPostgresURL reports whether s is a PostgreSQL connection URL.
func IsPostgresURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func ensureEnvFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	defaults := map[string]string{
		EnvLogLevel: constants.DefaultLogLevel,
		EnvTimezone: "Local",
	}
	if err := godotenv.Write(defaults, path); err != nil {
		return fmt.Errorf("failed to write default config file: %w", err)
	}
	logger.Info("created default config file", "path", path)
	return nil
}

func coalesce(args ...string) string {
	for _, s := range args {
		if s != "" {
			return s
		}
	}
	return ""
}
