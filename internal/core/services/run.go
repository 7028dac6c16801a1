package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driving"
	"github.com/custodia-labs/ghharvest/internal/logger"
)

// Ensure RunOrchestrator implements the interface.
var _ driving.Runner = (*RunOrchestrator)(nil)

// LanguageSearchPause separates the per-language searches of one run.
const LanguageSearchPause = time.Second

// AccountPause returns the pause between accounts for a requests-per-minute
// ceiling. A non-positive ceiling disables the pause.
func AccountPause(requestsPerMinute int) time.Duration {
	if requestsPerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(requestsPerMinute)
}

// RunOrchestrator searches for accounts, harvests them one after another
// and hands the resulting records to the configured writers.
type RunOrchestrator struct {
	source    driven.AccountSource
	harvester driving.Harvester
	store     driven.FindingStore
	writers   []driven.RecordWriter
	pause     time.Duration
	progress  driving.RunProgress

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
	newID func() string
}

// NewRunOrchestrator creates a run orchestrator.
// The store and writers are optional.
func NewRunOrchestrator(
	source driven.AccountSource,
	harvester driving.Harvester,
	store driven.FindingStore,
	writers []driven.RecordWriter,
	pause time.Duration,
) *RunOrchestrator {
	return &RunOrchestrator{
		source:    source,
		harvester: harvester,
		store:     store,
		writers:   writers,
		pause:     pause,
		progress:  noopProgress{},
		sleep:     sleepContext,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// SetProgress registers a progress listener.
func (o *RunOrchestrator) SetProgress(p driving.RunProgress) {
	if p == nil {
		p = noopProgress{}
	}
	o.progress = p
}

// Run executes a harvest run.
// On cancellation the records harvested so far are still stored and
// written, and the context error is returned alongside the summary.
// A token rejected by the API ends the run the same way with an error
// wrapping domain.ErrNotAuthenticated. Other search failures are logged.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (o *RunOrchestrator) Run(
	ctx context.Context,
	opts driving.RunOptions,
) (*domain.RunSummary, []domain.Record, error) {
	if err := opts.Criteria.Validate(); err != nil {
		return nil, nil, err
	}
	if opts.MaxAccounts <= 0 {
		return nil, nil, fmt.Errorf("%w: max accounts must be positive", domain.ErrInvalidInput)
	}

	summary := &domain.RunSummary{
		RunID:     o.newID(),
		Query:     opts.Criteria.Query(),
		StartedAt: o.now().UTC(),
	}
	state := NewRunState()

	// fatal ends the run early but still keeps what was harvested.
	var fatal error

	logins, err := o.search(ctx, opts)
	if err != nil && ctx.Err() == nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			fatal = fmt.Errorf("search accounts: %w", err)
		} else {
			logger.Warn("Search %s failed, continuing with %d account(s): %v", summary.Query, len(logins), err)
		}
	}
	summary.AccountsFound = len(logins)
	o.progress.AccountsFound(len(logins))
	logger.Info("Found %d account(s) for %s", len(logins), summary.Query)

	if fatal == nil && ctx.Err() == nil {
		fatal = o.harvestAll(ctx, opts, logins, summary, state)
	}
	summary.Interrupted = ctx.Err() != nil

	records, err := o.filterSeen(ctx, state.Records())
	if err != nil {
		return nil, nil, err
	}

	summary.Records = len(state.Records())
	summary.NewRecords = len(records)
	summary.UniqueEmails = state.UniqueEmails()
	summary.FinishedAt = o.now().UTC()

	if !opts.DryRun {
		if err := o.persist(ctx, summary, records); err != nil {
			return summary, records, err
		}
	}

	if fatal != nil {
		return summary, records, fatal
	}
	if summary.Interrupted {
		return summary, records, ctx.Err()
	}
	return summary, records, nil
}

// search runs one query per language when several are given and merges
// the results in first-seen order.
func (o *RunOrchestrator) search(ctx context.Context, opts driving.RunOptions) ([]string, error) {
	queries := opts.Criteria.Queries()
	if len(queries) == 1 {
		return o.source.SearchAccounts(ctx, queries[0], opts.MaxAccounts)
	}

	seen := make(map[string]struct{})
	var logins []string
	for i, q := range queries {
		if i > 0 {
			if err := o.sleep(ctx, LanguageSearchPause); err != nil {
				return logins, err
			}
		}
		found, err := o.source.SearchAccounts(ctx, q, opts.MaxAccounts)
		if err != nil {
			if ctx.Err() != nil {
				return logins, ctx.Err()
			}
			if errors.Is(err, domain.ErrNotAuthenticated) {
				return logins, err
			}
			logger.Warn("search %q failed: %v", q, err)
		}
		for _, login := range found {
			key := strings.ToLower(login)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			logins = append(logins, login)
		}
	}

	if len(logins) > opts.MaxAccounts {
		logins = logins[:opts.MaxAccounts]
	}
	return logins, nil
}

func (o *RunOrchestrator) harvestAll(
	ctx context.Context,
	opts driving.RunOptions,
	logins []string,
	summary *domain.RunSummary,
	state *RunState,
) error {
	for i, login := range logins {
		if ctx.Err() != nil {
			return nil
		}
		o.progress.AccountStarted(i+1, len(logins), login)

		result, err := o.harvestOne(ctx, login)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			summary.AccountsFailed++
			logger.Error("harvest %s: %v", login, err)
			o.progress.AccountFailed(login, err)
			// A rejected token fails every later request too.
			if errors.Is(err, domain.ErrNotAuthenticated) {
				return fmt.Errorf("harvest %s: %w", login, err)
			}
		} else {
			collectedAt := o.now().UTC()
			for _, f := range result.Findings {
				record := newRecord(result, f, opts.Criteria.Location, collectedAt)
				if state.Add(record) {
					o.progress.RecordAdded(record)
				}
			}
		}
		summary.AccountsProcessed++

		if i < len(logins)-1 && o.pause > 0 {
			if err := o.sleep(ctx, o.pause); err != nil {
				return nil
			}
		}
	}
	return nil
}

// harvestOne isolates a single account so that a panic does not end the run.
func (o *RunOrchestrator) harvestOne(ctx context.Context, login string) (result *domain.HarvestResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	result, err = o.harvester.Harvest(ctx, login)
	if err == nil && result == nil {
		err = errors.New("no result")
	}
	return result, err
}

func (o *RunOrchestrator) filterSeen(ctx context.Context, records []domain.Record) ([]domain.Record, error) {
	if o.store == nil {
		return records, nil
	}

	ctx = context.WithoutCancel(ctx)
	fresh := make([]domain.Record, 0, len(records))
	for _, r := range records {
		seen, err := o.store.Seen(ctx, r.Username, r.Email)
		if err != nil {
			return nil, fmt.Errorf("check stored records: %w", err)
		}
		if !seen {
			fresh = append(fresh, r)
		}
	}
	if skipped := len(records) - len(fresh); skipped > 0 {
		logger.Info("Skipped %d record(s) stored by earlier runs", skipped)
	}
	return fresh, nil
}

func (o *RunOrchestrator) persist(ctx context.Context, summary *domain.RunSummary, records []domain.Record) error {
	if o.store != nil {
		if err := o.store.SaveRun(context.WithoutCancel(ctx), *summary, records); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	var errs []error
	for _, w := range o.writers {
		if err := w.Write(records); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", w.Name(), err))
			continue
		}
		logger.Debug("Wrote %d record(s) to %s", len(records), w.Name())
	}
	return errors.Join(errs...)
}

// newRecord attaches account metadata to a finding. Accounts without a
// profile location fall back to the searched location.
func newRecord(result *domain.HarvestResult, f domain.Finding, searched string, at time.Time) domain.Record {
	location := result.Location
	if location == "" {
		location = strings.TrimSpace(searched)
	}
	category := location
	if category == "" {
		category = domain.UnknownCategory
	}

	return domain.Record{
		Finding:     f,
		Username:    result.Login,
		Name:        result.DisplayName,
		Location:    location,
		Category:    category,
		CollectedAt: at,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type noopProgress struct{}

func (noopProgress) AccountsFound(int)               {}
func (noopProgress) AccountStarted(int, int, string) {}
func (noopProgress) RecordAdded(domain.Record)       {}
func (noopProgress) AccountFailed(string, error)     {}
