// Package settings persists the per-client theme and language preferences.
package settings

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a client has no stored settings.
	ErrNotFound = errors.New("settings not found")

	// ErrInvalidSettings is returned when settings fail validation.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Repository defines the interface for settings storage.
type Repository interface {
	// Get retrieves the settings stored for a client.
	Get(ctx context.Context, clientID string) (*Settings, error)

	// Save creates or replaces the settings of a client.
	Save(ctx context.Context, s *Settings) error
}
