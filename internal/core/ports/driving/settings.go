package driving

import "github.com/custodia-labs/ghharvest/internal/core/domain"

// SettingsService manages persisted application settings.
type SettingsService interface {
	// Get returns the built-in defaults overlaid with the stored settings.
	Get() (domain.Settings, error)

	// Save persists settings.
	Save(settings domain.Settings) error

	// SetToken stores an access token, keeping the other settings.
	SetToken(token string) error

	// Path returns where settings are stored.
	Path() string
}
