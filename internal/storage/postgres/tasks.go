package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/dayreview/internal/models"
	"github.com/julianstephens/dayreview/internal/storage"
)

const selectTasks = "SELECT id, title, is_done, date, time FROM tasks"

func (s *Store) AddTask(ctx context.Context, task models.Task) (models.Task, error) {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO tasks (title, is_done, date, time) VALUES ($1, $2, $3, $4) RETURNING id",
		task.Title, task.IsDone, task.Date, nullString(task.Time)).Scan(&task.ID)
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *Store) GetTask(ctx context.Context, id int64) (models.Task, error) {
	task, err := scanTask(s.db.QueryRowContext(ctx, selectTasks+" WHERE id = $1", id))
	if err != nil {
		return models.Task{}, fmt.Errorf("task %d: %w", id, err)
	}
	return task, nil
}

func (s *Store) GetTasksForDate(ctx context.Context, date string) ([]models.Task, error) {
	return s.queryTasks(ctx, selectTasks+" WHERE date = $1 ORDER BY id", date)
}

func (s *Store) GetUnfinishedTasksBefore(ctx context.Context, date string) ([]models.Task, error) {
	return s.queryTasks(ctx, selectTasks+" WHERE date < $1 AND is_done = FALSE ORDER BY date, id", date)
}

func (s *Store) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	return s.queryTasks(ctx, selectTasks+" ORDER BY date, id")
}

func (s *Store) UpdateTask(ctx context.Context, task models.Task) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET title = $1, is_done = $2, date = $3, time = $4 WHERE id = $5",
		task.Title, task.IsDone, task.Date, nullString(task.Time), task.ID)
	if err != nil {
		return err
	}
	return expectAffected(res, "task", task.ID)
}

func (s *Store) MoveTaskToDate(ctx context.Context, id int64, date string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE tasks SET date = $1 WHERE id = $2", date, id)
	if err != nil {
		return err
	}
	return expectAffected(res, "task", id)
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
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
