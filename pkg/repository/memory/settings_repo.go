package memory

import (
	"context"
	"sync"

	"github.com/artem13815/hr-interviewer/pkg/settings"
)

// SettingsStore keeps settings in process memory.
type SettingsStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{values: make(map[string]string)}
}

func (s *SettingsStore) Get(_ context.Context) (settings.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return settings.Settings{
		APIKey:    s.values[settings.KeyAPIKey],
		ModelName: s.values[settings.KeyModelName],
	}, nil
}

func (s *SettingsStore) Set(_ context.Context, in settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[settings.KeyAPIKey] = in.APIKey
	s.values[settings.KeyModelName] = in.ModelName
	return nil
}
