package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/dayreview/internal/models"
	"github.com/julianstephens/dayreview/internal/storage"
)

const selectHabits = "SELECT id, title, color_argb, streak, is_done_today, history FROM habits"

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (title, color_argb, streak, is_done_today, history)
		VALUES (?, ?, ?, ?, ?)`,
		habit.Title, int64(habit.ColorARGB), habit.Streak, habit.IsDoneToday, habit.History.Encode())
	if err != nil {
		return models.Habit{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Habit{}, err
	}
	habit.ID = id
	return habit, nil
}

func (s *Store) GetHabit(ctx context.Context, id int64) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, selectHabits+" WHERE id = ?", id)
	h, err := scanHabit(row)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %d: %w", id, err)
	}
	return h, nil
}

func (s *Store) GetAllHabits(ctx context.Context) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, selectHabits+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE habits SET title = ?, color_argb = ?, streak = ?, is_done_today = ?, history = ?
		WHERE id = ?`,
		habit.Title, int64(habit.ColorARGB), habit.Streak, habit.IsDoneToday, habit.History.Encode(), habit.ID)
	if err != nil {
		return err
	}
	return expectAffected(res, "habit", habit.ID)
}

func (s *Store) DeleteHabit(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(res, "habit", id)
}

func scanHabit(s scannable) (models.Habit, error) {
	var h models.Habit
	var color int64
	var history sql.NullString
	if err := s.Scan(&h.ID, &h.Title, &color, &h.Streak, &h.IsDoneToday, &history); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, storage.ErrNotFound
		}
		return models.Habit{}, err
	}
	h.ColorARGB = uint32(color)
	h.History = models.DecodeHistory(history.String)
	return h, nil
}
