package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haoyun/jobflow/pkg/settings"
)

// SettingsRepository stores per-user tracker preferences.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) (*SettingsRepository, error) {
	r := &SettingsRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SettingsRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS user_settings (
	user_id UUID PRIMARY KEY,
	default_stages JSONB NOT NULL,
	last_view_email TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL
);
`)
	return err
}

func (r *SettingsRepository) Get(ctx context.Context, userID uuid.UUID) (settings.Settings, error) {
	row := r.pool.QueryRow(ctx, `
SELECT default_stages, last_view_email FROM user_settings WHERE user_id = $1
`, userID)
	var stagesJSON []byte
	var s settings.Settings
	if err := row.Scan(&stagesJSON, &s.LastViewEmail); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Settings{}, settings.ErrNotFound
		}
		return settings.Settings{}, err
	}
	_ = json.Unmarshal(stagesJSON, &s.DefaultStages)
	return s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, userID uuid.UUID, s settings.Settings) error {
	stagesJSON, err := json.Marshal(s.DefaultStages)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO user_settings (user_id, default_stages, last_view_email, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE SET
	default_stages = EXCLUDED.default_stages,
	last_view_email = EXCLUDED.last_view_email,
	updated_at = EXCLUDED.updated_at
`, userID, stagesJSON, s.LastViewEmail, time.Now().UTC())
	return err
}
