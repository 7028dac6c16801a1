package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes stored runs.
type HistoryService struct {
	store driven.FindingStore
}

// NewHistoryService creates a history service over store.
func NewHistoryService(store driven.FindingStore) *HistoryService {
	return &HistoryService{store: store}
}

// ListRuns returns up to limit runs, most recent first.
func (s *HistoryService) ListRuns(ctx context.Context, limit int) ([]domain.RunInfo, error) {
	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// RunRecords returns the records of a run. A unique prefix of the run ID
// is accepted.
func (s *HistoryService) RunRecords(ctx context.Context, runID string) ([]domain.Record, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}

	id, err := s.resolve(ctx, runID)
	if err != nil {
		return nil, err
	}
	return s.store.RunRecords(ctx, id)
}

func (s *HistoryService) resolve(ctx context.Context, prefix string) (string, error) {
	runs, err := s.store.ListRuns(ctx, 0)
	if err != nil {
		return "", fmt.Errorf("list runs: %w", err)
	}

	var matches []string
	for _, run := range runs {
		if run.ID == prefix {
			return run.ID, nil
		}
		if strings.HasPrefix(run.ID, prefix) {
			matches = append(matches, run.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("run %s: %w", prefix, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: run id %q is ambiguous", domain.ErrInvalidInput, prefix)
	}
}

// Close releases the store.
func (s *HistoryService) Close() error {
	return s.store.Close()
}
