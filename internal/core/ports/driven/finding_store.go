package driven

import (
	"context"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

// FindingStore persists records across runs so that a record written by
// an earlier run is not written again.
type FindingStore interface {
	// Seen reports whether a record for (username, email) was stored
	// before. Comparison is case-insensitive.
	Seen(ctx context.Context, username, email string) (bool, error)

	// SaveRun stores a run and the records it produced.
	SaveRun(ctx context.Context, run domain.RunSummary, records []domain.Record) error

	// ListRuns returns stored runs, most recent first.
	// A non-positive limit returns all runs.
	ListRuns(ctx context.Context, limit int) ([]domain.RunInfo, error)

	// RunRecords returns the records a run stored, in insertion order.
	RunRecords(ctx context.Context, runID string) ([]domain.Record, error)

	// Close releases resources.
	Close() error
}
