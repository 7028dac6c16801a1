package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the defaults overlaid with the stored settings.
func (s *SettingsService) Get() (domain.Settings, error) {
	stored, err := s.configStore.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return domain.DefaultSettings().Merge(stored), nil
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings domain.Settings) error {
	if err := domain.DefaultSettings().Merge(settings).Validate(); err != nil {
		return err
	}
	if err := s.configStore.Save(settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SetToken stores token without touching other stored values.
func (s *SettingsService) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: token is empty", domain.ErrInvalidInput)
	}

	stored, err := s.configStore.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	stored.GitHub.Token = token
	return s.configStore.Save(stored)
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}
