package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dayreview/internal/backup"
	"github.com/julianstephens/dayreview/internal/cli"
	"github.com/julianstephens/dayreview/internal/constants"
	"github.com/julianstephens/dayreview/internal/keyring"
	"github.com/julianstephens/dayreview/internal/models"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(ctx *cli.Context) error
	// warn marks checks whose failure is reported but not fatal.
	warn bool
	// needsDB checks are skipped when the database cannot be loaded.
	needsDB bool
}

var checks = []check{
	{name: "Database reachable", run: checkDatabase},
	{name: "Mood scale", run: checkMoodScale, needsDB: true},
	{name: "Ratings", run: checkRatings, needsDB: true},
	{name: "Habit integrity", run: checkHabits, needsDB: true},
	{name: "Timezone", run: checkTimezone},
	{name: "Keyring", run: checkKeyring, warn: true},
	{name: "Backups present", run: checkBackups, warn: true},
}

func (c *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	failed := false
	dbOK := true
	for _, chk := range checks {
		if chk.needsDB && !dbOK {
			ctx.Printf("- %s: SKIPPED (database not reachable)\n", chk.name)
			continue
		}
		err := chk.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", chk.name)
		case chk.warn:
			ctx.Printf("! %s: WARNING\n   %v\n", chk.name, err)
		default:
			ctx.Printf("✗ %s: FAIL\n   %v\n", chk.name, err)
			failed = true
			if chk.name == "Database reachable" {
				dbOK = false
			}
		}
	}

	ctx.Println()
	if failed {
		return errors.New("some checks failed")
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkDatabase(ctx *cli.Context) error {
	return ctx.Store.Load()
}

func checkMoodScale(ctx *cli.Context) error {
	configs, err := ctx.Store.GetAllMoodConfigs(ctx.Context())
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		return errors.New("mood scale is not seeded, run 'dayreview init'")
	}
	want := len(models.DefaultMoodConfigs())
	if len(configs) != want {
		return fmt.Errorf("expected %d moods, found %d", want, len(configs))
	}
	return nil
}

func checkRatings(ctx *cli.Context) error {
	configs, err := ctx.Store.GetAllMoodConfigs(ctx.Context())
	if err != nil {
		return err
	}
	known := make(map[int]bool, len(configs))
	for _, m := range configs {
		known[m.ID] = true
	}

	ratings, err := ctx.Store.GetAllRatings(ctx.Context())
	if err != nil {
		return err
	}
	for _, r := range ratings {
		if !known[r.MoodID] {
			return fmt.Errorf("rating for %s uses unknown mood %d", r.Date, r.MoodID)
		}
	}
	return nil
}

func checkHabits(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(ctx.Context())
	if err != nil {
		return err
	}
	var bad []string
	for _, h := range habits {
		switch {
		case len(h.History) != constants.HistoryLength:
			bad = append(bad, fmt.Sprintf("habit %d has %d history slots", h.ID, len(h.History)))
		case h.Streak < 0:
			bad = append(bad, fmt.Sprintf("habit %d has a negative streak", h.ID))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%d problem(s): %v", len(bad), bad)
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	if _, err := time.LoadLocation(ctx.Config.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Timezone, err)
	}
	return nil
}

// checkKeyring warns when a PostgreSQL journal cannot reach the keyring, or
// when a stored connection string is shadowed by another database setting.
func checkKeyring(ctx *cli.Context) error {
	state, err := keyring.Status()
	switch {
	case state == keyring.Unavailable && ctx.Config.IsPostgres():
		return fmt.Errorf("%w; keep the password in ~/.pgpass or PGPASSWORD instead", err)
	case state == keyring.Stored && !keyring.Holds(ctx.Config.Database):
		return errors.New("a stored connection string is overridden by --db, DAYREVIEW_DB or the config file")
	}
	return nil
}

func checkBackups(ctx *cli.Context) error {
	path, err := ctx.DatabasePath()
	if err != nil {
		return err
	}
	infos, err := backup.NewManager(path).List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return errors.New("no backups yet, run 'dayreview backup create'")
	}
	return nil
}
