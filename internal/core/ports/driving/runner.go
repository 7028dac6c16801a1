package driving

import (
	"context"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

// RunOptions configures a harvest run.
type RunOptions struct {
	// Criteria select the accounts to harvest.
	Criteria domain.Criteria

	// MaxAccounts caps the number of accounts processed.
	MaxAccounts int

	// DryRun skips persistence and output.
	DryRun bool
}

// Runner executes a complete harvest run.
type Runner interface {
	// Run searches for accounts and harvests them one at a time.
	// Per-account failures are counted, not returned.
	Run(ctx context.Context, opts RunOptions) (*domain.RunSummary, []domain.Record, error)
}

// RunProgress receives progress notifications during a run.
type RunProgress interface {
	// AccountsFound is called once the search finishes.
	AccountsFound(n int)

	// AccountStarted is called before an account is harvested.
	AccountStarted(index, total int, login string)

	// RecordAdded is called for every new record.
	RecordAdded(record domain.Record)

	// AccountFailed is called when harvesting an account failed.
	AccountFailed(login string, err error)
}

// RunnerFactory builds a Runner from resolved settings. The returned
// close function releases resources held by the runner.
type RunnerFactory func(settings domain.Settings, dryRun bool, progress RunProgress) (Runner, func() error, error)

// HistoryFactory opens the run history for resolved settings.
type HistoryFactory func(settings domain.Settings) (HistoryService, error)
