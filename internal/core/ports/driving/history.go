package driving

import (
	"context"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

// HistoryService reads past runs.
type HistoryService interface {
	// ListRuns returns up to limit runs, most recent first.
	ListRuns(ctx context.Context, limit int) ([]domain.RunInfo, error)

	// RunRecords returns the records a run stored.
	RunRecords(ctx context.Context, runID string) ([]domain.Record, error)

	// Close releases the underlying storage.
	Close() error
}
