package driven

import "github.com/custodia-labs/ghharvest/internal/core/domain"

// ConfigStore persists application settings.
type ConfigStore interface {
	// Load reads settings from storage. A missing file yields zero settings.
	Load() (domain.Settings, error)

	// Save writes settings to storage.
	Save(settings domain.Settings) error

	// Path returns the configuration file path.
	Path() string
}
