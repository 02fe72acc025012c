package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dayreview/internal/cli"
	"github.com/julianstephens/dayreview/internal/cli/backups"
	"github.com/julianstephens/dayreview/internal/cli/habits"
	"github.com/julianstephens/dayreview/internal/cli/moods"
	"github.com/julianstephens/dayreview/internal/cli/system"
	"github.com/julianstephens/dayreview/internal/cli/tasks"
	"github.com/julianstephens/dayreview/internal/cli/views"
	"github.com/julianstephens/dayreview/internal/config"
	"github.com/julianstephens/dayreview/internal/constants"
	dayerrors "github.com/julianstephens/dayreview/internal/errors"
	"github.com/julianstephens/dayreview/internal/keyring"
	"github.com/julianstephens/dayreview/internal/logger"
	"github.com/julianstephens/dayreview/internal/review"
	"github.com/julianstephens/dayreview/internal/storage"
	"github.com/julianstephens/dayreview/internal/storage/postgres"
	"github.com/julianstephens/dayreview/internal/storage/sqlite"
)

var CLI struct {
	Version   kong.VersionFlag
	DB        string `name:"db" help:"SQLite database path or PostgreSQL connection string. Passwords belong in ~/.pgpass, PGPASSWORD or the OS keyring." env:"DAYREVIEW_DB"`
	ConfigDir string `help:"Directory holding the config file, logs and default database." default:"${config_dir}"`
	LogLevel  string `help:"Log level (debug, info, warn, error)."`
	Timezone  string `help:"IANA time zone that decides what today is, e.g. Europe/Berlin."`
	Debug     bool   `help:"Log to stderr at debug level."`
	Yes       bool   `short:"y" help:"Skip confirmation prompts."`

	Init    system.InitCmd    `cmd:"" help:"Initialize dayreview storage and seed the mood scale."`
	Migrate system.MigrateCmd `cmd:"" help:"Apply pending database migrations."`
	Config  system.ConfigCmd  `cmd:"" help:"Show configuration and manage the stored connection string."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks on the database and configuration."`

	Watch views.WatchCmd `cmd:"" help:"Show a live dashboard of a day." default:"withargs"`
	Month views.MonthCmd `cmd:"" help:"Show a month calendar colored by mood."`

	Task   tasks.TaskCmd     `cmd:"" help:"Manage tasks."`
	Habit  habits.HabitCmd   `cmd:"" help:"Manage habits."`
	Mood   moods.MoodCmd     `cmd:"" help:"Manage the mood scale."`
	Rate   moods.RateCmd     `cmd:"" help:"Rate today with a mood."`
	Backup backups.BackupCmd `cmd:"" help:"Manage database backups."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily review journal: tasks, habits and moods"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"config_dir": constants.DefaultConfigDir,
		},
	)

	cfg, err := config.Load(config.Options{
		ConfigDir: CLI.ConfigDir,
		Overrides: config.Overrides{
			Database: CLI.DB,
			LogLevel: CLI.LogLevel,
			Timezone: CLI.Timezone,
		},
	})
	if err != nil {
		dayerrors.Fatal(err)
	}

	backend := "sqlite"
	if cfg.IsPostgres() {
		backend = "postgres"
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, Level: cfg.LogLevel, LogDir: cfg.LogDir, Backend: backend}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		dayerrors.Fatal(fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err))
	}

	store, err := openStore(cfg)
	if err != nil {
		dayerrors.Fatal(err)
	}
	defer store.Close() //nolint:errcheck

	if needsLoad(kctx.Command()) {
		if err := store.Load(); err != nil {
			dayerrors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Ctx:       context.Background(),
		Config:    cfg,
		Store:     store,
		Service:   review.NewService(store, nil, review.WithLocation(loc)),
		AssumeYes: CLI.Yes,
	}

	logger.Debug("running command", "command", kctx.Command())
	if err := kctx.Run(appCtx); err != nil {
		store.Close() //nolint:errcheck
		dayerrors.Fatal(err)
	}
}

func openStore(cfg config.Config) (storage.Provider, error) {
	if !cfg.IsPostgres() {
		return sqlite.NewStore(cfg.Database), nil
	}

	if _, err := postgres.ValidateConnString(cfg.Database); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		// a password is only acceptable when it came from the keyring
		if !keyring.Holds(cfg.Database) {
			return nil, errors.New("PostgreSQL connection strings must not embed a password; " +
				"use ~/.pgpass, PGPASSWORD or 'dayreview config set-connection'")
		}
	}
	return postgres.New(cfg.Database), nil
}

// needsLoad reports whether a command expects main to open an existing
// database before it runs.
func needsLoad(command string) bool {
	for _, prefix := range []string{"init", "config", "doctor"} {
		if strings.HasPrefix(command, prefix) {
			return false
		}
	}
	return true
}
