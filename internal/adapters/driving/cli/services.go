package cli

import (
	"github.com/custodia-labs/ghharvest/internal/core/ports/driving"
)

// Services holds the core services the commands call.
// They are wired by main so that this package depends on ports only.
type Services struct {
	// Settings opens the settings service for a config file path.
	// An empty path selects the default location.
	Settings func(configPath string) (driving.SettingsService, error)

	// NewRunner builds the harvest runner.
	NewRunner driving.RunnerFactory

	// OpenHistory opens the run history.
	OpenHistory driving.HistoryFactory
}

var services Services

// SetServices registers the core services.
func SetServices(s Services) {
	services = s
}
