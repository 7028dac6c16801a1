package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
)

// Ensure FindingStore implements the interface.
var _ driven.FindingStore = (*FindingStore)(nil)

// FindingStore is an in-memory implementation of driven.FindingStore.
// It backs dry runs and tests.
type FindingStore struct {
	mu      sync.RWMutex
	seen    map[findingKey]struct{}
	runs    map[string]domain.RunInfo
	records map[string][]domain.Record
}

type findingKey struct {
	username string
	email    string
}

func keyOf(username, email string) findingKey {
	return findingKey{
		username: strings.ToLower(username),
		email:    strings.ToLower(email),
	}
}

// NewFindingStore creates a new in-memory finding store.
func NewFindingStore() *FindingStore {
	return &FindingStore{
		seen:    make(map[findingKey]struct{}),
		runs:    make(map[string]domain.RunInfo),
		records: make(map[string][]domain.Record),
	}
}

// Seen reports whether a record for (username, email) was stored before.
func (s *FindingStore) Seen(_ context.Context, username, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[keyOf(username, email)]
	return ok, nil
}

// SaveRun stores a run and its records. Records already stored are ignored.
func (s *FindingStore) SaveRun(_ context.Context, run domain.RunSummary, records []domain.Record) error {
	if run.RunID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		key := keyOf(r.Username, r.Email)
		if _, ok := s.seen[key]; ok {
			continue
		}
		s.seen[key] = struct{}{}
		s.records[run.RunID] = append(s.records[run.RunID], r)
	}

	s.runs[run.RunID] = domain.RunInfo{
		ID:         run.RunID,
		Query:      run.Query,
		Records:    len(records),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
	return nil
}

// ListRuns returns stored runs, most recent first.
func (s *FindingStore) ListRuns(_ context.Context, limit int) ([]domain.RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.RunInfo, 0, len(s.runs))
	for _, run := range s.runs {
		result = append(result, run)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// RunRecords returns the records stored for a run.
func (s *FindingStore) RunRecords(_ context.Context, runID string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.records[runID]
	result := make([]domain.Record, len(records))
	copy(result, records)
	return result, nil
}

// Close is a no-op.
func (s *FindingStore) Close() error {
	return nil
}
