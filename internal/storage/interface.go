package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/dayreview/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotInitialized is returned by Load when there is no journal yet.
	ErrNotInitialized = errors.New("storage not initialized")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Tasks
	AddTask(ctx context.Context, task models.Task) (models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	GetTasksForDate(ctx context.Context, date string) ([]models.Task, error)
	// GetUnfinishedTasksBefore returns every task dated strictly before date that is not done.
	GetUnfinishedTasksBefore(ctx context.Context, date string) ([]models.Task, error)
	GetAllTasks(ctx context.Context) ([]models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) error
	MoveTaskToDate(ctx context.Context, id int64, date string) error
	DeleteTask(ctx context.Context, id int64) error

	// Habits
	AddHabit(ctx context.Context, habit models.Habit) (models.Habit, error)
	GetHabit(ctx context.Context, id int64) (models.Habit, error)
	GetAllHabits(ctx context.Context) ([]models.Habit, error)
	// UpdateHabit replaces every field of the stored habit.
	UpdateHabit(ctx context.Context, habit models.Habit) error
	DeleteHabit(ctx context.Context, id int64) error

	// Ratings
	// SetRating inserts or replaces the rating for rating.Date.
	SetRating(ctx context.Context, rating models.Rating) error
	GetRating(ctx context.Context, date string) (models.Rating, error)
	GetAllRatings(ctx context.Context) ([]models.Rating, error)

	// Mood configuration
	GetMoodConfig(ctx context.Context, id int) (models.MoodConfig, error)
	GetAllMoodConfigs(ctx context.Context) ([]models.MoodConfig, error)
	// SeedMoodConfigs inserts configs only when the table is empty and reports whether it did.
	SeedMoodConfigs(ctx context.Context, configs []models.MoodConfig) (bool, error)
	UpdateMoodConfig(ctx context.Context, config models.MoodConfig) error

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by providers backed by a versioned schema.
type Migrator interface {
	// Migrate applies pending migrations and returns how many ran.
	Migrate(logFn func(string)) (int, error)
}
