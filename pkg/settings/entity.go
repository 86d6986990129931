package settings

import (
	"context"
	"strings"
)

// Storage keys of the two persisted values.
const (
	KeyAPIKey    = "openrouter-api-key"
	KeyModelName = "openrouter-model-name"
)

// DefaultModel is reported when no model has been stored yet.
const DefaultModel = "openai/gpt-4o"

// Settings holds the provider credential and the selected model identifier.
type Settings struct {
	APIKey    string `json:"apiKey"`
	ModelName string `json:"modelName"`
}

// Configured reports whether both values are present.
func (s Settings) Configured() bool {
	return strings.TrimSpace(s.APIKey) != "" && strings.TrimSpace(s.ModelName) != ""
}

// Store persists the two settings values. Unset values are returned as empty strings.
type Store interface {
	Get(ctx context.Context) (Settings, error)
	Set(ctx context.Context, s Settings) error
}
