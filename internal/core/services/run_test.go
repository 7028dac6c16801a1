package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ghharvest/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driving"
)

// mockWriter implements driven.RecordWriter for testing.
type mockWriter struct {
	name    string
	err     error
	written [][]domain.Record
}

func (m *mockWriter) Name() string { return m.name }

func (m *mockWriter) Write(records []domain.Record) error {
	m.written = append(m.written, records)
	return m.err
}

// recordingProgress implements driving.RunProgress for testing.
type recordingProgress struct {
	found   int
	started []string
	added   int
	failed  []string
}

func (p *recordingProgress) AccountsFound(n int) { p.found = n }
func (p *recordingProgress) AccountStarted(_, _ int, login string) {
	p.started = append(p.started, login)
}
func (p *recordingProgress) RecordAdded(domain.Record) { p.added++ }
func (p *recordingProgress) AccountFailed(login string, _ error) {
	p.failed = append(p.failed, login)
}

var runNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type sleepLog struct {
	waits []time.Duration
	err   error
}

func (s *sleepLog) sleep(_ context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return s.err
}

func newTestOrchestrator(
	source *mockAccountSource,
	store *memory.FindingStore,
	writers ...*mockWriter,
) (*RunOrchestrator, *sleepLog) {
	var ws []driven.RecordWriter
	for _, w := range writers {
		ws = append(ws, w)
	}

	var fs driven.FindingStore
	if store != nil {
		fs = store
	}

	o := NewRunOrchestrator(source, NewHarvester(source, DefaultHarvestOptions()), fs, ws, 2*time.Second)
	sleeps := &sleepLog{}
	o.sleep = sleeps.sleep
	o.now = func() time.Time { return runNow }
	o.newID = func() string { return "run-1" }
	return o, sleeps
}

func goCriteria() domain.Criteria {
	return domain.Criteria{Location: "Berlin", Languages: []string{"Go"}}
}

func TestRunOrchestrator_Run(t *testing.T) {
	source := newMockAccountSource()
	query := goCriteria().Query()
	source.searchResults[query] = []string{"alice", "bob"}
	source.accounts["alice"] = &domain.Account{Login: "alice", Name: "Alice", Location: "Berlin", Email: "alice@example.com"}
	source.accounts["bob"] = &domain.Account{Login: "bob", Bio: "bob@example.com"}

	writer := &mockWriter{name: "txt"}
	o, sleeps := newTestOrchestrator(source, nil, writer)
	progress := &recordingProgress{}
	o.SetProgress(progress)

	summary, records, err := o.Run(context.Background(), driving.RunOptions{Criteria: goCriteria(), MaxAccounts: 10})
	require.NoError(t, err)

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, query, summary.Query)
	assert.Equal(t, 2, summary.AccountsFound)
	assert.Equal(t, 2, summary.AccountsProcessed)
	assert.Equal(t, 0, summary.AccountsFailed)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 2, summary.NewRecords)
	assert.Equal(t, 2, summary.UniqueEmails)
	assert.False(t, summary.Interrupted)

	require.Len(t, records, 2)
	assert.Equal(t, domain.Record{
		Finding:     domain.Finding{Email: "alice@example.com", Source: domain.SourceProfile},
		Username:    "alice",
		Name:        "Alice",
		Location:    "Berlin",
		Category:    "Berlin",
		CollectedAt: runNow,
	}, records[0])
	assert.Equal(t, "bob", records[1].Name)
	assert.Equal(t, "Berlin", records[1].Location, "falls back to searched location")

	// One pause between two accounts.
	assert.Equal(t, []time.Duration{2 * time.Second}, sleeps.waits)

	require.Len(t, writer.written, 1)
	assert.Equal(t, records, writer.written[0])

	assert.Equal(t, 2, progress.found)
	assert.Equal(t, []string{"alice", "bob"}, progress.started)
	assert.Equal(t, 2, progress.added)
}

func TestRunOrchestrator_UnknownCategory(t *testing.T) {
	source := newMockAccountSource()
	criteria := domain.Criteria{Languages: []string{"Rust"}}
	source.searchResults[criteria.Query()] = []string{"carol"}
	source.accounts["carol"] = &domain.Account{Login: "carol", Email: "carol@example.com"}

	o, _ := newTestOrchestrator(source, nil)
	_, records, err := o.Run(context.Background(), driving.RunOptions{Criteria: criteria, MaxAccounts: 1})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, domain.UnknownCategory, records[0].Category)
	assert.Empty(t, records[0].Location)
}

func TestRunOrchestrator_DeduplicatesAcrossAccounts(t *testing.T) {
	source := newMockAccountSource()
	source.searchResults[goCriteria().Query()] = []string{"alice", "bob"}
	source.accounts["alice"] = &domain.Account{Login: "alice", Email: "shared@example.com"}
	source.accounts["bob"] = &domain.Account{Login: "bob", Email: "shared@example.com"}

	o, _ := newTestOrchestrator(source, nil)
	summary, records, err := o.Run(context.Background(), driving.RunOptions{Criteria: goCriteria(), MaxAccounts: 10})
	require.NoError(t, err)

	want := []domain.Record{
		{Finding: domain.Finding{Email: "shared@example.com", Source: domain.SourceProfile}, Username: "alice"},
		{Finding: domain.Finding{Email: "shared@example.com", Source: domain.SourceProfile}, Username: "bob"},
	}
	ignore := cmpopts.IgnoreFields(domain.Record{}, "Name", "Location", "Category", "CollectedAt")
	if diff := cmp.Diff(want, records, ignore); diff != "" {
		t.Errorf("same address under two accounts is two records (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, summary.UniqueEmails)
}

func TestRunOrchestrator_PerAccountFailuresDoNotAbort(t *testing.T) {
	source := newMockAccountSource()
	source.searchResults[goCriteria().Query()] = []string{"alice", "panicky", "bob"}
	source.accounts["alice"] = &domain.Account{Login: "alice", Email: "alice@example.com"}
	source.accounts["bob"] = &domain.Account{Login: "bob", Email: "bob@example.com"}
	source.panicOn = "panicky"

	o, _ := newTestOrchestrator(source, nil)
	progress := &recordingProgress{}
	o.SetProgress(progress)

	summary, records, err := o.Run(context.Background(), driving.RunOptions{Criteria: goCriteria(), MaxAccounts: 10})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.AccountsProcessed)
	assert.Equal(t, 1, summary.AccountsFailed)
	assert.Equal(t, []string{"panicky"}, progress.failed)
	require.Len(t, records, 2)
	assert.Equal(t, "bob", records[1].Username)
}

func TestRunOrchestrator_MultiLanguageSearch(t *testing.T) {
	source := newMockAccountSource()
	criteria := domain.Criteria{Location: "Oslo", Languages: []string{"Go", "Rust"}}
	queries := criteria.Queries()
	require.Len(t, queries, 2)
	source.searchResults[queries[0]] = []string{"alice", "bob"}
	source.searchResults[queries[1]] = []string{"Bob", "carol", "dave"}

	o, sleeps := newTestOrchestrator(source, nil)
	o.pause = 0

	summary, _, err := o.Run(context.Background(), driving.RunOptions{Criteria: criteria, MaxAccounts: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.AccountsFound)
	assert.Equal(t, []string{"account:alice", "account:bob", "account:carol"}, source.callsWithPrefix("account:"))
	assert.Equal(t, []time.Duration{LanguageSearchPause}, sleeps.waits)
	assert.Len(t, source.callsWithPrefix("search:"), 2)
}

func TestRunOrchestrator_FiltersStoredRecords(t *testing.T) {
	source := newMockAccountSource()
	source.searchResults[goCriteria().Query()] = []string{"alice"}
	source.accounts["alice"] = &domain.Account{Login: "alice", Email: "alice@example.com", Bio: "new@example.com"}

	store := memory.NewFindingStore()
	require.NoError(t, store.SaveRun(context.Background(), domain.RunSummary{RunID: "old"}, []domain.Record{
		{Finding: domain.Finding{Email: "alice@example.com"}, Username: "Alice"},
	}))

	writer := &mockWriter{name: "csv"}
	o, _ := newTestOrchestrator(source, store, writer)

	summary, records, err := o.Run(context.Background(), driving.RunOptions{Criteria: goCriteria(), MaxAccounts: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 1, summary.NewRecords)
	require.Len(t, records, 1)
	assert.Equal(t, "new@example.com", records[0].Email)

	runs, err := store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, 1, runs[0].Records)
}

func TestRunOrchestrator_DryRunSkipsPersistence(t *testing.T) {
	source := newMockAccountSource()
	source.searchResults[goCriteria().Query()] = []string{"alice"}
	source.accounts["alice"] = &domain.Account{Login: "alice", Email: "alice@example.com"}

	store := memory.NewFindingStore()
	writer := &mockWriter{name: "json"}
	o, _ := newTestOrchestrator(source, store, writer)

	_, records, err := o.Run(context.Background(), driving.RunOptions{
		Criteria:    goCriteria(),
		MaxAccounts: 1,
		DryRun:      true,
	})
	require.NoError(t, err)

	assert.Len(t, records, 1)
	assert.Empty(t, writer.written)
	runs, err := store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRunOrchestrator_WriterErrorsAreJoined(t *testing.T) {
	source := newMockAccountSource()
	source.searchResults[goCriteria().Query()] = []string{"alice"}
	source.accounts["alice"] = &domain.Account{Login: "alice", Email: "alice@example.com"}

	failing := &mockWriter{name: "csv", err: errors.New("disk full")}
	ok := &mockWriter{name: "txt"}
	o, _ := newTestOrchestrator(source, nil, failing, ok)

	summary, _, err := o.Run(context.Background(), driving.RunOptions{Criteria: goCriteria(), MaxAccounts: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write csv: disk full")
	assert.NotNil(t, summary)
	assert.Len(t, ok.written, 1)
}

func TestRunOrchestrator_InterruptKeepsCompletedAccounts(t *testing.T) {
	source := newMockAccountSource()
	source.searchResults[goCriteria().Query()] = []string{"alice", "bob"}
	source.accounts["alice"] = &domain.Account{Login: "alice", Email: "alice@example.com"}
	source.accounts["bob"] = &domain.Account{Login: "bob", Email: "bob@example.com"}

	writer := &mockWriter{name: "txt"}
	o, _ := newTestOrchestrator(source, nil, writer)

	ctx, cancel := context.WithCancel(context.Background())
	o.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	summary, records, err := o.Run(ctx, driving.RunOptions{Criteria: goCriteria(), MaxAccounts: 10})
	require.ErrorIs(t, err, context.Canceled)

	assert.True(t, summary.Interrupted)
	assert.Equal(t, 1, summary.AccountsProcessed)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].Username)
	require.Len(t, writer.written, 1)
	assert.Empty(t, source.callsWithPrefix("account:bob"))
}

func TestRunOrchestrator_Preflight(t *testing.T) {
	o, _ := newTestOrchestrator(newMockAccountSource(), nil)

	_, _, err := o.Run(context.Background(), driving.RunOptions{MaxAccounts: 1})
	assert.ErrorIs(t, err, domain.ErrNoCriteria)

	_, _, err = o.Run(context.Background(), driving.RunOptions{Criteria: goCriteria()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunOrchestrator_SearchFailureStillSummarises(t *testing.T) {
	source := newMockAccountSource()
	source.searchErr = domain.ErrUnavailable

	writer := &mockWriter{name: "txt"}
	o, _ := newTestOrchestrator(source, nil, writer)
	summary, records, err := o.Run(context.Background(), driving.RunOptions{Criteria: goCriteria(), MaxAccounts: 1})
	require.NoError(t, err)

	require.NotNil(t, summary)
	assert.Zero(t, summary.AccountsFound)
	assert.Zero(t, summary.AccountsProcessed)
	assert.Empty(t, records)
	assert.Len(t, writer.written, 1, "an empty run still writes its files")
}

func TestRunOrchestrator_RejectedTokenOnSearch(t *testing.T) {
	source := newMockAccountSource()
	source.searchErr = fmt.Errorf("search users: %w", domain.ErrNotAuthenticated)

	o, _ := newTestOrchestrator(source, nil)
	summary, _, err := o.Run(context.Background(), driving.RunOptions{Criteria: goCriteria(), MaxAccounts: 1})

	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.True(t, strings.HasPrefix(err.Error(), "search accounts"))
	require.NotNil(t, summary)
	assert.Empty(t, source.callsWithPrefix("account:"))
}

func TestRunOrchestrator_RejectedTokenStopsRun(t *testing.T) {
	source := newMockAccountSource()
	source.searchResults[goCriteria().Query()] = []string{"alice", "bob", "carol"}
	source.accountErr = fmt.Errorf("get user: %w", domain.ErrNotAuthenticated)

	store := memory.NewFindingStore()
	o, _ := newTestOrchestrator(source, store)
	progress := &recordingProgress{}
	o.SetProgress(progress)

	summary, _, err := o.Run(context.Background(), driving.RunOptions{Criteria: goCriteria(), MaxAccounts: 10})

	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.AccountsFound)
	assert.Equal(t, 1, summary.AccountsFailed)
	assert.Equal(t, []string{"account:alice"}, source.callsWithPrefix("account:"))
	assert.Equal(t, []string{"alice"}, progress.failed)

	runs, err := store.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "the partial run is still stored")
}

func TestAccountPause(t *testing.T) {
	assert.Equal(t, 2*time.Second, AccountPause(30))
	assert.Equal(t, time.Second, AccountPause(60))
	assert.Equal(t, time.Duration(0), AccountPause(0))
}

func TestRunState(t *testing.T) {
	s := NewRunState()

	assert.True(t, s.Add(domain.Record{Finding: domain.Finding{Email: "a@example.com"}, Username: "alice"}))
	assert.False(t, s.Add(domain.Record{Finding: domain.Finding{Email: "A@example.com"}, Username: "ALICE"}))
	assert.True(t, s.Add(domain.Record{Finding: domain.Finding{Email: "a@example.com"}, Username: "bob"}))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.UniqueEmails())
	assert.Equal(t, "bob", s.Records()[1].Username)
}
