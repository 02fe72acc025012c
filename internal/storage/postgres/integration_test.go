package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/julianstephens/dayreview/internal/models"
	"github.com/julianstephens/dayreview/internal/storage"
)

// TestStore_Integration runs against a real database.
// Set POSTGRES_TEST_URL to enable it, e.g.
// POSTGRES_TEST_URL="postgres://dayreview@localhost:5432/dayreview_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close() //nolint:errcheck

	for _, table := range []string{"ratings", "mood_config", "tasks", "habits"} {
		if _, err := store.db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clear %s: %v", table, err)
		}
	}

	t.Run("Tasks", func(t *testing.T) {
		task, err := store.AddTask(ctx, models.Task{Title: "Write report", Date: "2024-03-01", Time: "09:00"})
		if err != nil {
			t.Fatalf("Failed to add task: %v", err)
		}
		if _, err := store.AddTask(ctx, models.Task{Title: "Done already", Date: "2024-03-01", IsDone: true}); err != nil {
			t.Fatalf("Failed to add task: %v", err)
		}

		ghosts, err := store.GetUnfinishedTasksBefore(ctx, "2024-03-05")
		if err != nil {
			t.Fatalf("Failed to get ghost tasks: %v", err)
		}
		if len(ghosts) != 1 || ghosts[0].ID != task.ID {
			t.Errorf("Expected one ghost task %d, got %+v", task.ID, ghosts)
		}

		if err := store.MoveTaskToDate(ctx, task.ID, "2024-03-05"); err != nil {
			t.Fatalf("Failed to move task: %v", err)
		}
		moved, err := store.GetTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("Failed to get task: %v", err)
		}
		if moved.Date != "2024-03-05" || moved.Time != "09:00" {
			t.Errorf("Unexpected moved task: %+v", moved)
		}

		if err := store.DeleteTask(ctx, task.ID); err != nil {
			t.Fatalf("Failed to delete task: %v", err)
		}
		if _, err := store.GetTask(ctx, task.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Habits", func(t *testing.T) {
		h, err := store.AddHabit(ctx, models.NewHabit("Meditate", 0xFF4CAF50))
		if err != nil {
			t.Fatalf("Failed to add habit: %v", err)
		}
		h.Streak = 2
		h.History.Set(0, true)
		if err := store.UpdateHabit(ctx, h); err != nil {
			t.Fatalf("Failed to update habit: %v", err)
		}

		got, err := store.GetHabit(ctx, h.ID)
		if err != nil {
			t.Fatalf("Failed to get habit: %v", err)
		}
		if got.Streak != 2 || !got.History[0] || got.ColorARGB != 0xFF4CAF50 {
			t.Errorf("Unexpected habit: %+v", got)
		}
	})

	t.Run("Moods", func(t *testing.T) {
		seeded, err := store.SeedMoodConfigs(ctx, models.DefaultMoodConfigs())
		if err != nil || !seeded {
			t.Fatalf("Failed to seed mood configs: %v, %v", seeded, err)
		}
		if err := store.SetRating(ctx, models.Rating{Date: "2024-03-01", MoodID: 1}); err != nil {
			t.Fatalf("Failed to set rating: %v", err)
		}
		if err := store.SetRating(ctx, models.Rating{Date: "2024-03-01", MoodID: 3}); err != nil {
			t.Fatalf("Failed to overwrite rating: %v", err)
		}
		r, err := store.GetRating(ctx, "2024-03-01")
		if err != nil || r.MoodID != 3 {
			t.Errorf("Expected mood 3, got %+v, %v", r, err)
		}
	})
}
