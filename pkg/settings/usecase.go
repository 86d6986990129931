package settings

import (
	"context"
	"strings"
)

// UseCase reads and updates the provider settings.
type UseCase interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, s Settings) (Settings, error)
	SeedIfEmpty(ctx context.Context, s Settings) error
	// Resolve fills empty fields of override from the stored settings.
	Resolve(ctx context.Context, override Settings) (Settings, error)
}

type service struct {
	store Store
}

func NewService(store Store) UseCase { return &service{store: store} }

func (s *service) Get(ctx context.Context) (Settings, error) {
	cur, err := s.store.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	if cur.ModelName == "" {
		cur.ModelName = DefaultModel
	}
	return cur, nil
}

func (s *service) Update(ctx context.Context, in Settings) (Settings, error) {
	in.APIKey = strings.TrimSpace(in.APIKey)
	in.ModelName = strings.TrimSpace(in.ModelName)
	if in.APIKey == "" {
		return Settings{}, ErrValidation("apiKey is required")
	}
	if in.ModelName == "" {
		return Settings{}, ErrValidation("modelName is required")
	}
	if err := s.store.Set(ctx, in); err != nil {
		return Settings{}, err
	}
	return in, nil
}

// SeedIfEmpty stores the non-empty fields of seed that are not set yet.
func (s *service) SeedIfEmpty(ctx context.Context, seed Settings) error {
	cur, err := s.store.Get(ctx)
	if err != nil {
		return err
	}
	changed := false
	if cur.APIKey == "" && seed.APIKey != "" {
		cur.APIKey = seed.APIKey
		changed = true
	}
	if cur.ModelName == "" && seed.ModelName != "" {
		cur.ModelName = seed.ModelName
		changed = true
	}
	if !changed {
		return nil
	}
	return s.store.Set(ctx, cur)
}

func (s *service) Resolve(ctx context.Context, override Settings) (Settings, error) {
	if override.Configured() {
		return override, nil
	}
	cur, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	if strings.TrimSpace(override.APIKey) != "" {
		cur.APIKey = override.APIKey
	}
	if strings.TrimSpace(override.ModelName) != "" {
		cur.ModelName = override.ModelName
	}
	return cur, nil
}

// ErrValidation is returned for rejected settings input.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }

// Masked returns the API key with everything but the last four characters hidden.
func Masked(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 4 {
		return strings.Repeat("*", len(apiKey))
	}
	return strings.Repeat("*", len(apiKey)-4) + apiKey[len(apiKey)-4:]
}
