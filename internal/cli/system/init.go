package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/dayreview/internal/cli"
	"github.com/julianstephens/dayreview/internal/config"
	"github.com/julianstephens/dayreview/internal/storage"
	"github.com/julianstephens/dayreview/internal/storage/postgres"
	"github.com/julianstephens/dayreview/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing SQLite database before initializing."`
	Source string `help:"Database path or connection string to copy the journal from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized dayreview storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying journal from: %s\n", c.Source)
		src, err := openSource(c.Source)
		if err != nil {
			return err
		}
		if err := src.Load(); err != nil {
			return fmt.Errorf("failed to load source database: %w", err)
		}
		defer src.Close() //nolint:errcheck

		stats, err := copyJournal(ctx.Context(), src, ctx.Store)
		if err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Printf("  Copied %d tasks, %d habits, %d ratings and %d moods\n",
			stats.Tasks, stats.Habits, stats.Ratings, stats.Moods)
	}

	seeded, err := ctx.Service.SeedMoodConfigs(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to seed mood scale: %w", err)
	}
	if seeded {
		ctx.Println("Seeded the default mood scale.")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath, err := ctx.DatabasePath()
	if err != nil {
		return fmt.Errorf("--force: %w", err)
	}
	if c.Source != "" && samePath(dbPath, c.Source) {
		return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
	}

	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	ok, err := ctx.Confirm("Delete the existing database?", dbPath)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("init cancelled")
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		if err := os.Remove(dbPath + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

// openSource picks a provider for a path or PostgreSQL connection string.
func openSource(source string) (storage.Provider, error) {
	if config.IsPostgresURL(source) || strings.Contains(source, "host=") {
		if _, err := postgres.ValidateConnString(source); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, errors.New("source connection string contains a password, use ~/.pgpass or PGPASSWORD instead")
			}
			return nil, err
		}
		return postgres.New(source), nil
	}
	path, err := config.ExpandHome(source)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

type copyStats struct {
	Tasks   int
	Habits  int
	Ratings int
	Moods   int
}

// copyJournal copies every row from src into dst. Task and habit ids are
// reassigned by dst; mood ids are kept so ratings stay valid.
func copyJournal(ctx context.Context, src, dst storage.Provider) (copyStats, error) {
	var stats copyStats

	moods, err := src.GetAllMoodConfigs(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to read moods: %w", err)
	}
	if len(moods) > 0 {
		seeded, err := dst.SeedMoodConfigs(ctx, moods)
		if err != nil {
			return stats, fmt.Errorf("failed to write moods: %w", err)
		}
		if !seeded {
			for _, m := range moods {
				if err := dst.UpdateMoodConfig(ctx, m); err != nil {
					return stats, fmt.Errorf("failed to update mood %d: %w", m.ID, err)
				}
			}
		}
		stats.Moods = len(moods)
	}

	tasks, err := src.GetAllTasks(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to read tasks: %w", err)
	}
	for _, t := range tasks {
		if _, err := dst.AddTask(ctx, t); err != nil {
			return stats, fmt.Errorf("failed to add task %d: %w", t.ID, err)
		}
	}
	stats.Tasks = len(tasks)

	habits, err := src.GetAllHabits(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to read habits: %w", err)
	}
	for _, h := range habits {
		if _, err := dst.AddHabit(ctx, h); err != nil {
			return stats, fmt.Errorf("failed to add habit %d: %w", h.ID, err)
		}
	}
	stats.Habits = len(habits)

	ratings, err := src.GetAllRatings(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to read ratings: %w", err)
	}
	for _, r := range ratings {
		if err := dst.SetRating(ctx, r); err != nil {
			return stats, fmt.Errorf("failed to add rating for %s: %w", r.Date, err)
		}
	}
	stats.Ratings = len(ratings)

	return stats, nil
}
