package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/i18n"
)

// ServiceConfig holds configuration for the settings service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger
}

// Service reads and updates client settings, applying defaults for clients
// that have stored nothing.
type Service struct {
	repo     Repository
	logger   zerolog.Logger
	validate *validator.Validate
}

// NewService creates a new settings service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:     cfg.Repository,
		logger:   cfg.Logger,
		validate: validator.New(),
	}
}

// Get returns the stored settings for clientID, or the defaults (light theme,
// fallback language) when nothing is stored. Storage errors other than
// ErrNotFound are logged and also answered with defaults so the page still
// renders.
func (s *Service) Get(ctx context.Context, clientID string, fallback i18n.Language) *Settings {
	stored, err := s.repo.Get(ctx, clientID)
	if err == nil {
		return stored
	}

	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn().Err(err).Str("client_id", clientID).Msg("failed to load settings, using defaults")
	}

	return Defaults(clientID, fallback)
}

// SetLanguage stores lang for clientID and returns the updated settings.
func (s *Service) SetLanguage(ctx context.Context, clientID string, lang i18n.Language) (*Settings, error) {
	current := s.Get(ctx, clientID, lang)
	current.Language = lang

	if err := s.save(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// ToggleTheme flips the stored theme for clientID and returns the updated settings.
func (s *Service) ToggleTheme(ctx context.Context, clientID string, fallback i18n.Language) (*Settings, error) {
	current := s.Get(ctx, clientID, fallback)
	current.Theme = current.Theme.Toggle()

	if err := s.save(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Validate checks settings against their field rules.
func (s *Service) Validate(st *Settings) error {
	if err := s.validate.Struct(st); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, st *Settings) error {
	if err := s.Validate(st); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, st); err != nil {
		s.logger.Error().Err(err).Str("client_id", st.ClientID).Msg("failed to save settings")
		return fmt.Errorf("saving settings: %w", err)
	}

	s.logger.Debug().
		Str("client_id", st.ClientID).
		Str("theme", string(st.Theme)).
		Str("language", string(st.Language)).
		Msg("settings saved")

	return nil
}
