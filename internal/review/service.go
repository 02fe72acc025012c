// Package review derives the journal's day views from stored rows and
// applies validated mutations back to storage. Every successful write is
// published to the live hub so open views refresh themselves.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/dayreview/internal/calendar"
	"github.com/julianstephens/dayreview/internal/live"
	"github.com/julianstephens/dayreview/internal/logger"
	"github.com/julianstephens/dayreview/internal/models"
	"github.com/julianstephens/dayreview/internal/storage"
)

var (
	ErrReadOnlyDate = errors.New("date is in the past and read-only")
	ErrEmptyTitle   = errors.New("title cannot be empty")
	ErrUnknownMood  = errors.New("unknown mood")
)

type Service struct {
	store storage.Provider
	hub   *live.Hub
	now   func() time.Time
	loc   *time.Location

	// serializes read-modify-write sequences within this process
	mu sync.Mutex
}

type Option func(*Service)

// WithClock overrides the time source used to decide what "today" is.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewService(store storage.Provider, hub *live.Hub, opts ...Option) *Service {
	s := &Service{
		store: store,
		hub:   hub,
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hub == nil {
		s.hub = live.NewHub()
	}
	return s
}

func (s *Service) Hub() *live.Hub {
	return s.hub
}

// Today returns the current date in the service's location.
func (s *Service) Today() string {
	return calendar.FormatDate(s.now().In(s.loc))
}

func (s *Service) publish(topics ...live.Topic) {
	s.hub.Publish(topics...)
}

// Tasks

func (s *Service) TasksForDate(ctx context.Context, date string) ([]models.Task, error) {
	return s.store.GetTasksForDate(ctx, date)
}

// GhostTasks returns unfinished tasks from any day before today.
func (s *Service) GhostTasks(ctx context.Context) ([]models.Task, error) {
	return s.store.GetUnfinishedTasksBefore(ctx, s.Today())
}

func (s *Service) AddTask(ctx context.Context, date, title, clock string) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, ErrEmptyTitle
	}
	if _, err := calendar.ParseDate(date); err != nil {
		return models.Task{}, err
	}
	if !calendar.IsEditable(date, s.Today()) {
		return models.Task{}, fmt.Errorf("cannot add task on %s: %w", date, ErrReadOnlyDate)
	}
	tm, err := calendar.ParseTime(clock)
	if err != nil {
		return models.Task{}, err
	}

	task, err := s.store.AddTask(ctx, models.Task{
		Title: title,
		Date:  date,
		Time:  tm,
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to add task: %w", err)
	}
	s.publish(live.TopicTasks)
	return task, nil
}

// ToggleTask flips the done flag.
func (s *Service) ToggleTask(ctx context.Context, id int64) (models.Task, error) {
	return s.setTaskDone(ctx, id, func(t models.Task) bool { return !t.IsDone })
}

// CompleteTask marks a task done. A task that is already done is left alone.
func (s *Service) CompleteTask(ctx context.Context, id int64) (models.Task, error) {
	return s.setTaskDone(ctx, id, func(models.Task) bool { return true })
}

// UncheckTask reopens a done task. A task that is not done is left alone.
func (s *Service) UncheckTask(ctx context.Context, id int64) (models.Task, error) {
	return s.setTaskDone(ctx, id, func(models.Task) bool { return false })
}

func (s *Service) setTaskDone(ctx context.Context, id int64, next func(models.Task) bool) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	done := next(task)
	if done == task.IsDone {
		return task, nil
	}

	task.IsDone = done
	if err := s.store.UpdateTask(ctx, task); err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	s.publish(live.TopicTasks)
	return task, nil
}

// EditTask replaces the title and time of a task dated today or later.
func (s *Service) EditTask(ctx context.Context, id int64, title, clock string) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, ErrEmptyTitle
	}
	tm, err := calendar.ParseTime(clock)
	if err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if !calendar.IsEditable(task.Date, s.Today()) {
		return models.Task{}, fmt.Errorf("cannot edit task on %s: %w", task.Date, ErrReadOnlyDate)
	}

	task.Title = title
	task.Time = tm
	if err := s.store.UpdateTask(ctx, task); err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	s.publish(live.TopicTasks)
	return task, nil
}

// MoveTaskToDate reschedules a task, typically a ghost task, onto an editable date.
func (s *Service) MoveTaskToDate(ctx context.Context, id int64, date string) error {
	if _, err := calendar.ParseDate(date); err != nil {
		return err
	}
	if !calendar.IsEditable(date, s.Today()) {
		return fmt.Errorf("cannot move task to %s: %w", date, ErrReadOnlyDate)
	}
	if err := s.store.MoveTaskToDate(ctx, id, date); err != nil {
		return err
	}
	s.publish(live.TopicTasks)
	return nil
}

func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.publish(live.TopicTasks)
	return nil
}

// Habits

func (s *Service) Habits(ctx context.Context) ([]models.Habit, error) {
	return s.store.GetAllHabits(ctx)
}

func (s *Service) AddHabit(ctx context.Context, title string, color uint32) (models.Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Habit{}, ErrEmptyTitle
	}
	h, err := s.store.AddHabit(ctx, models.NewHabit(title, color))
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit: %w", err)
	}
	s.publish(live.TopicHabits)
	return h, nil
}

// EditHabit replaces the title and color of a habit.
func (s *Service) EditHabit(ctx context.Context, id int64, title string, color uint32) (models.Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Habit{}, ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.store.GetHabit(ctx, id)
	if err != nil {
		return models.Habit{}, err
	}
	h.Title = title
	h.ColorARGB = color
	if err := s.store.UpdateHabit(ctx, h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}
	s.publish(live.TopicHabits)
	return h, nil
}

func (s *Service) DeleteHabit(ctx context.Context, id int64) error {
	if err := s.store.DeleteHabit(ctx, id); err != nil {
		return err
	}
	s.publish(live.TopicHabits)
	return nil
}

// ToggleHabit flips today's completion of a habit and adjusts its streak.
// An unknown id is a no-op and reports false.
func (s *Service) ToggleHabit(ctx context.Context, id int64) (models.Habit, bool, error) {
	idx, err := calendar.HistoryIndex(s.Today())
	if err != nil {
		return models.Habit{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.store.GetHabit(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Debug("toggle of unknown habit ignored", "id", id)
		return models.Habit{}, false, nil
	}
	if err != nil {
		return models.Habit{}, false, err
	}

	h = toggleHabit(h, idx)
	if err := s.store.UpdateHabit(ctx, h); err != nil {
		return models.Habit{}, false, fmt.Errorf("failed to update habit: %w", err)
	}
	s.publish(live.TopicHabits)
	return h, true, nil
}

// toggleHabit flips IsDoneToday, mirrors it into history[todayIndex] when
// that slot exists, and moves the streak by one, never below zero.
func toggleHabit(h models.Habit, todayIndex int) models.Habit {
	done := !h.IsDoneToday

	h.History = h.History.Clone()
	h.History.Set(todayIndex, done)
	h.IsDoneToday = done

	if done {
		h.Streak++
	} else if h.Streak > 0 {
		h.Streak--
	}
	return h
}

// Ratings

// RatingsByDate returns every rating keyed by date.
func (s *Service) RatingsByDate(ctx context.Context) (map[string]int, error) {
	ratings, err := s.store.GetAllRatings(ctx)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]int, len(ratings))
	for _, r := range ratings {
		byDate[r.Date] = r.MoodID
	}
	return byDate, nil
}

// RateToday stores moodID as today's rating, replacing any earlier one.
func (s *Service) RateToday(ctx context.Context, moodID int) (models.Rating, error) {
	if _, err := s.store.GetMoodConfig(ctx, moodID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Rating{}, fmt.Errorf("mood %d: %w", moodID, ErrUnknownMood)
		}
		return models.Rating{}, err
	}

	r := models.Rating{Date: s.Today(), MoodID: moodID}
	if err := s.store.SetRating(ctx, r); err != nil {
		return models.Rating{}, fmt.Errorf("failed to save rating: %w", err)
	}
	s.publish(live.TopicRatings)
	return r, nil
}

// Mood configuration

// SeedMoodConfigs installs the default mood scale if none exists yet.
func (s *Service) SeedMoodConfigs(ctx context.Context) (bool, error) {
	seeded, err := s.store.SeedMoodConfigs(ctx, models.DefaultMoodConfigs())
	if err != nil {
		return false, fmt.Errorf("failed to seed mood configs: %w", err)
	}
	if seeded {
		logger.Info("seeded default mood scale")
		s.publish(live.TopicMoods)
	}
	return seeded, nil
}

func (s *Service) MoodConfigs(ctx context.Context) ([]models.MoodConfig, error) {
	return s.store.GetAllMoodConfigs(ctx)
}

// UpdateMoodConfig replaces the label, color, icon and visibility of a mood.
func (s *Service) UpdateMoodConfig(ctx context.Context, c models.MoodConfig) error {
	if strings.TrimSpace(c.Label) == "" {
		return ErrEmptyTitle
	}
	if err := s.store.UpdateMoodConfig(ctx, c); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("mood %d: %w", c.ID, ErrUnknownMood)
		}
		return err
	}
	// ratings render through the mood config, so both views refresh
	s.publish(live.TopicMoods, live.TopicRatings)
	return nil
}
