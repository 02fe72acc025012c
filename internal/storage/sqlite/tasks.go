package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/dayreview/internal/logger"
	"github.com/julianstephens/dayreview/internal/models"
	"github.com/julianstephens/dayreview/internal/storage"
)

const selectTasks = "SELECT id, title, is_done, date, time FROM tasks"

func (s *Store) AddTask(ctx context.Context, task models.Task) (models.Task, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (title, is_done, date, time) VALUES (?, ?, ?, ?)",
		task.Title, task.IsDone, task.Date, nullString(task.Time))
	if err != nil {
		return models.Task{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, err
	}
	task.ID = id
	logger.Debug("inserted task", "id", id, "date", task.Date)
	return task, nil
}

func (s *Store) GetTask(ctx context.Context, id int64) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, selectTasks+" WHERE id = ?", id)
	task, err := scanTask(row)
	if err != nil {
		return models.Task{}, fmt.Errorf("task %d: %w", id, err)
	}
	return task, nil
}

func (s *Store) GetTasksForDate(ctx context.Context, date string) ([]models.Task, error) {
	return s.queryTasks(ctx, selectTasks+" WHERE date = ? ORDER BY id", date)
}

func (s *Store) GetUnfinishedTasksBefore(ctx context.Context, date string) ([]models.Task, error) {
	return s.queryTasks(ctx, selectTasks+" WHERE date < ? AND is_done = 0 ORDER BY date, id", date)
}

func (s *Store) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	return s.queryTasks(ctx, selectTasks+" ORDER BY date, id")
}

func (s *Store) UpdateTask(ctx context.Context, task models.Task) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET title = ?, is_done = ?, date = ?, time = ? WHERE id = ?",
		task.Title, task.IsDone, task.Date, nullString(task.Time), task.ID)
	if err != nil {
		return err
	}
	return expectAffected(res, "task", task.ID)
}

func (s *Store) MoveTaskToDate(ctx context.Context, id int64, date string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE tasks SET date = ? WHERE id = ?", date, id)
	if err != nil {
		return err
	}
	return expectAffected(res, "task", id)
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(res, "task", id)
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanTask(s scannable) (models.Task, error) {
	var t models.Task
	var tm sql.NullString
	if err := s.Scan(&t.ID, &t.Title, &t.IsDone, &t.Date, &tm); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, storage.ErrNotFound
		}
		return models.Task{}, err
	}
	t.Time = tm.String
	return t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectAffected(res sql.Result, kind string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
