package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/dayreview/internal/models"
	"github.com/julianstephens/dayreview/internal/storage"
)

const selectMoodConfigs = "SELECT id, label, color_argb, icon_ref, is_visible FROM mood_config"

func (s *Store) SetRating(ctx context.Context, rating models.Rating) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ratings (date, mood_id) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET mood_id = excluded.mood_id`,
		rating.Date, rating.MoodID)
	return err
}

func (s *Store) GetRating(ctx context.Context, date string) (models.Rating, error) {
	var r models.Rating
	err := s.db.QueryRowContext(ctx, "SELECT date, mood_id FROM ratings WHERE date = ?", date).Scan(&r.Date, &r.MoodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Rating{}, fmt.Errorf("rating for %s: %w", date, storage.ErrNotFound)
		}
		return models.Rating{}, err
	}
	return r, nil
}

func (s *Store) GetAllRatings(ctx context.Context) ([]models.Rating, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT date, mood_id FROM ratings ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	ratings := []models.Rating{}
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.Date, &r.MoodID); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func (s *Store) GetMoodConfig(ctx context.Context, id int) (models.MoodConfig, error) {
	row := s.db.QueryRowContext(ctx, selectMoodConfigs+" WHERE id = ?", id)
	c, err := scanMoodConfig(row)
	if err != nil {
		return models.MoodConfig{}, fmt.Errorf("mood config %d: %w", id, err)
	}
	return c, nil
}

func (s *Store) GetAllMoodConfigs(ctx context.Context) ([]models.MoodConfig, error) {
	rows, err := s.db.QueryContext(ctx, selectMoodConfigs+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	configs := []models.MoodConfig{}
	for rows.Next() {
		c, err := scanMoodConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func (s *Store) SeedMoodConfigs(ctx context.Context, configs []models.MoodConfig) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback() //nolint:errcheck

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM mood_config").Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mood_config (id, label, color_argb, icon_ref, is_visible)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return false, err
	}
	defer stmt.Close() //nolint:errcheck

	for _, c := range configs {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Label, int64(c.ColorARGB), c.IconRef, c.IsVisible); err != nil {
			return false, fmt.Errorf("failed to seed mood config %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) UpdateMoodConfig(ctx context.Context, c models.MoodConfig) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE mood_config SET label = ?, color_argb = ?, icon_ref = ?, is_visible = ?
		WHERE id = ?`,
		c.Label, int64(c.ColorARGB), c.IconRef, c.IsVisible, c.ID)
	if err != nil {
		return err
	}
	return expectAffected(res, "mood config", c.ID)
}

func scanMoodConfig(s scannable) (models.MoodConfig, error) {
	var c models.MoodConfig
	var color int64
	if err := s.Scan(&c.ID, &c.Label, &color, &c.IconRef, &c.IsVisible); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MoodConfig{}, storage.ErrNotFound
		}
		return models.MoodConfig{}, err
	}
	c.ColorARGB = uint32(color)
	return c, nil
}
