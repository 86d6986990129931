package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hr-interviewer/pkg/settings"
)

// SettingsStore keeps the settings values in the settings key/value table.
type SettingsStore struct {
	pool *pgxpool.Pool
}

func NewSettingsStore(pool *pgxpool.Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

func (r *SettingsStore) Get(ctx context.Context) (settings.Settings, error) {
	rows, err := r.pool.Query(ctx, `
SELECT key, value FROM settings WHERE key = ANY($1)
`, []string{settings.KeyAPIKey, settings.KeyModelName})
	if err != nil {
		return settings.Settings{}, err
	}
	defer rows.Close()
	var out settings.Settings
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return settings.Settings{}, err
		}
		switch k {
		case settings.KeyAPIKey:
			out.APIKey = v
		case settings.KeyModelName:
			out.ModelName = v
		}
	}
	return out, rows.Err()
}

func (r *SettingsStore) Set(ctx context.Context, in settings.Settings) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for k, v := range map[string]string{settings.KeyAPIKey: in.APIKey, settings.KeyModelName: in.ModelName} {
		_, err := tx.Exec(ctx, `
INSERT INTO settings (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`, k, v)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
