package review

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/dayreview/internal/calendar"
	"github.com/julianstephens/dayreview/internal/live"
	"github.com/julianstephens/dayreview/internal/logger"
	"github.com/julianstephens/dayreview/internal/models"
)

// Session owns the selected date and exposes live views over the service.
// Commands run in the background and never block the caller; failures are
// logged. All views close when the session is closed or its parent
// context ends.
type Session struct {
	svc      *Service
	ctx      context.Context
	cancel   context.CancelFunc
	cmdCtx   context.Context
	cmds     errgroup.Group
	views    live.Group
	selected *live.State[string]
}

// NewSession starts a session with today selected and seeds the mood
// scale in the background.
func NewSession(ctx context.Context, svc *Service) *Session {
	sctx, cancel := context.WithCancel(ctx)
	s := &Session{
		svc:    svc,
		ctx:    sctx,
		cancel: cancel,
		// in-flight writes outlive Close so they are not torn mid-way
		cmdCtx:   context.WithoutCancel(ctx),
		selected: live.NewState(svc.Today()),
	}
	s.dispatch("seed mood configs", func(ctx context.Context) error {
		_, err := svc.SeedMoodConfigs(ctx)
		return err
	})
	return s
}

// Close tears down every view and waits for in-flight loads and pending
// commands, so the store may be closed once it returns. It returns the
// first command failure, if any.
func (s *Session) Close() error {
	s.cancel()
	s.views.Wait()
	return s.cmds.Wait()
}

// Flush waits for every command dispatched so far.
func (s *Session) Flush() error {
	return s.cmds.Wait()
}

func (s *Session) dispatch(name string, fn func(ctx context.Context) error) {
	s.cmds.Go(func() error {
		err := fn(s.cmdCtx)
		logger.Outcome(name, err, "selected", s.selected.Get())
		return err
	})
}

// Navigation

func (s *Session) SelectedDate() string {
	return s.selected.Get()
}

// SelectedDates emits the selected date now and after every change.
func (s *Session) SelectedDates() <-chan string {
	return s.selected.Observe(s.ctx)
}

func (s *Session) SelectDate(date string) error {
	if _, err := calendar.ParseDate(date); err != nil {
		return err
	}
	s.selected.Set(date)
	return nil
}

// SetYearMonth jumps to year/month, landing on today in the current month.
func (s *Session) SetYearMonth(year int, month time.Month) {
	s.selected.Set(calendar.SnapToMonth(s.svc.Today(), year, month))
}

// ChangeMonth moves to month within the selected year.
func (s *Session) ChangeMonth(month time.Month) {
	today := s.svc.Today()
	s.selected.Update(func(cur string) string {
		return calendar.ChangeMonth(today, cur, month)
	})
}

// ShiftMonth moves the selection delta months forward or back.
func (s *Session) ShiftMonth(delta int) {
	today := s.svc.Today()
	s.selected.Update(func(cur string) string {
		return calendar.ShiftMonth(today, cur, delta)
	})
}

// IsEditable reports whether the selected date accepts new or edited tasks.
func (s *Session) IsEditable() bool {
	return calendar.IsEditable(s.selected.Get(), s.svc.Today())
}

// Views

// Tasks follows the selected date and emits its tasks.
func (s *Session) Tasks() <-chan []models.Task {
	return live.Switch(s.ctx, &s.views, s.selected, func(ctx context.Context, date string) <-chan []models.Task {
		return live.Watch(ctx, &s.views, s.svc.Hub(), func(ctx context.Context) ([]models.Task, error) {
			return s.svc.TasksForDate(ctx, date)
		}, live.TopicTasks)
	})
}

// GhostTasks emits unfinished tasks from before today while the selected
// date is editable, and an empty list while viewing the past.
func (s *Session) GhostTasks() <-chan []models.Task {
	return live.Switch(s.ctx, &s.views, s.selected, func(ctx context.Context, date string) <-chan []models.Task {
		if calendar.IsPast(date, s.svc.Today()) {
			out := make(chan []models.Task, 1)
			out <- []models.Task{}
			return out
		}
		return live.Watch(ctx, &s.views, s.svc.Hub(), s.svc.GhostTasks, live.TopicTasks)
	})
}

func (s *Session) Habits() <-chan []models.Habit {
	return live.Watch(s.ctx, &s.views, s.svc.Hub(), s.svc.Habits, live.TopicHabits)
}

// Ratings emits every rating keyed by date.
func (s *Session) Ratings() <-chan map[string]int {
	return live.Watch(s.ctx, &s.views, s.svc.Hub(), s.svc.RatingsByDate, live.TopicRatings)
}

func (s *Session) MoodConfigs() <-chan []models.MoodConfig {
	return live.Watch(s.ctx, &s.views, s.svc.Hub(), s.svc.MoodConfigs, live.TopicMoods)
}

// Month emits the calendar grid of the selected month with its ratings.
func (s *Session) Month() <-chan calendar.Grid {
	return live.Switch(s.ctx, &s.views, s.selected, func(ctx context.Context, date string) <-chan calendar.Grid {
		t, err := calendar.ParseDate(date)
		if err != nil {
			t = time.Now()
		}
		return live.Map(ctx, &s.views, live.Watch(ctx, &s.views, s.svc.Hub(), s.svc.RatingsByDate, live.TopicRatings),
			func(ratings map[string]int) calendar.Grid {
				return calendar.Month(t.Year(), t.Month(), ratings)
			})
	})
}

// Commands

// AddTask adds a task to the selected date.
func (s *Session) AddTask(title, clock string) {
	date := s.selected.Get()
	s.dispatch("add task", func(ctx context.Context) error {
		_, err := s.svc.AddTask(ctx, date, title, clock)
		return err
	})
}

func (s *Session) ToggleTask(id int64) {
	s.dispatch("toggle task", func(ctx context.Context) error {
		_, err := s.svc.ToggleTask(ctx, id)
		return err
	})
}

func (s *Session) CompleteTask(id int64) {
	s.dispatch("complete task", func(ctx context.Context) error {
		_, err := s.svc.CompleteTask(ctx, id)
		return err
	})
}

func (s *Session) UncheckTask(id int64) {
	s.dispatch("uncheck task", func(ctx context.Context) error {
		_, err := s.svc.UncheckTask(ctx, id)
		return err
	})
}

func (s *Session) EditTask(id int64, title, clock string) {
	s.dispatch("edit task", func(ctx context.Context) error {
		_, err := s.svc.EditTask(ctx, id, title, clock)
		return err
	})
}

func (s *Session) MoveTaskToDate(id int64, date string) {
	s.dispatch("move task", func(ctx context.Context) error {
		return s.svc.MoveTaskToDate(ctx, id, date)
	})
}

func (s *Session) DeleteTask(id int64) {
	s.dispatch("delete task", func(ctx context.Context) error {
		return s.svc.DeleteTask(ctx, id)
	})
}

func (s *Session) AddHabit(title string, color uint32) {
	s.dispatch("add habit", func(ctx context.Context) error {
		_, err := s.svc.AddHabit(ctx, title, color)
		return err
	})
}

func (s *Session) EditHabit(id int64, title string, color uint32) {
	s.dispatch("edit habit", func(ctx context.Context) error {
		_, err := s.svc.EditHabit(ctx, id, title, color)
		return err
	})
}

func (s *Session) DeleteHabit(id int64) {
	s.dispatch("delete habit", func(ctx context.Context) error {
		return s.svc.DeleteHabit(ctx, id)
	})
}

func (s *Session) ToggleHabit(id int64) {
	s.dispatch("toggle habit", func(ctx context.Context) error {
		_, _, err := s.svc.ToggleHabit(ctx, id)
		return err
	})
}

func (s *Session) RateToday(moodID int) {
	s.dispatch("rate today", func(ctx context.Context) error {
		_, err := s.svc.RateToday(ctx, moodID)
		return err
	})
}

func (s *Session) UpdateMoodConfig(c models.MoodConfig) {
	s.dispatch("update mood config", func(ctx context.Context) error {
		return s.svc.UpdateMoodConfig(ctx, c)
	})
}
