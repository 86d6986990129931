package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/artem13815/hr-interviewer/pkg/settings"
)

// DefaultPrefix namespaces the settings keys used by the server.
const DefaultPrefix = "hr-interviewer:"

// SettingsStore keeps the two settings values as plain Redis string keys.
type SettingsStore struct {
	client goredis.UniversalClient
	prefix string
}

// NewSettingsStore stores keys as prefix+settings.Key*; prefix may be empty.
func NewSettingsStore(client goredis.UniversalClient, prefix string) *SettingsStore {
	return &SettingsStore{client: client, prefix: prefix}
}

func (s *SettingsStore) Get(ctx context.Context) (settings.Settings, error) {
	vals, err := s.client.MGet(ctx, s.prefix+settings.KeyAPIKey, s.prefix+settings.KeyModelName).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return settings.Settings{}, fmt.Errorf("redis get settings: %w", err)
	}
	var out settings.Settings
	if len(vals) == 2 {
		out.APIKey, _ = vals[0].(string)
		out.ModelName, _ = vals[1].(string)
	}
	return out, nil
}

func (s *SettingsStore) Set(ctx context.Context, in settings.Settings) error {
	_, err := s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, s.prefix+settings.KeyAPIKey, in.APIKey, 0)
		p.Set(ctx, s.prefix+settings.KeyModelName, in.ModelName, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set settings: %w", err)
	}
	return nil
}
