package postgres

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
		INSERT INTO ratings (date, mood_id) VALUES ($1, $2)
		ON CONFLICT (date) DO UPDATE SET mood_id = EXCLUDED.mood_id`,
		rating.Date, rating.MoodID)
	return err
}

func (s *Store) GetRating(ctx context.Context, date string) (models.Rating, error) {
	var r models.Rating
	err := s.db.QueryRowContext(ctx, "SELECT date, mood_id FROM ratings WHERE date = $1", date).Scan(&r.Date, &r.MoodID)
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
	c, err := scanMoodConfig(s.db.QueryRowContext(ctx, selectMoodConfigs+" WHERE id = $1", id))
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

	// serialize concurrent seeders on the table lock
	if _, err := tx.ExecContext(ctx, "LOCK TABLE mood_config IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		return false, err
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM mood_config").Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	for _, c := range configs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO mood_config (id, label, color_argb, icon_ref, is_visible)
			VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.Label, int64(c.ColorARGB), c.IconRef, c.IsVisible)
		if err != nil {
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
		UPDATE mood_config SET label = $1, color_argb = $2, icon_ref = $3, is_visible = $4
		WHERE id = $5`,
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
