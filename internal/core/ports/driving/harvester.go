package driving

import (
	"context"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

// Harvester collects contact findings for a single account.
type Harvester interface {
	// Harvest returns the findings for login in source order. It never
	// fails because a source was unavailable; an error means the context
	// was cancelled.
	Harvest(ctx context.Context, login string) (*domain.HarvestResult, error)
}
