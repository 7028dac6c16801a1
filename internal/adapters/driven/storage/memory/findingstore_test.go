package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

func record(username, email string) domain.Record {
	return domain.Record{
		Finding:  domain.Finding{Email: email, Source: domain.SourceProfile},
		Username: username,
	}
}

func TestNewFindingStore(t *testing.T) {
	store := NewFindingStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.seen)
	assert.NotNil(t, store.runs)
}

func TestFindingStore_Seen(t *testing.T) {
	store := NewFindingStore()
	ctx := context.Background()

	seen, err := store.Seen(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.SaveRun(ctx, domain.RunSummary{RunID: "run-1"}, []domain.Record{
		record("Alice", "Alice@example.com"),
	}))

	seen, err = store.Seen(ctx, "alice", "alice@EXAMPLE.com")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestFindingStore_SaveRun_RequiresID(t *testing.T) {
	store := NewFindingStore()
	err := store.SaveRun(context.Background(), domain.RunSummary{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFindingStore_RunRecords(t *testing.T) {
	store := NewFindingStore()
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, domain.RunSummary{RunID: "run-1"}, []domain.Record{
		record("alice", "alice@example.com"),
	}))
	require.NoError(t, store.SaveRun(ctx, domain.RunSummary{RunID: "run-2"}, []domain.Record{
		record("alice", "alice@example.com"),
		record("bob", "bob@example.com"),
	}))

	records, err := store.RunRecords(ctx, "run-2")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "bob", records[0].Username)

	records, err = store.RunRecords(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFindingStore_ListRuns(t *testing.T) {
	store := NewFindingStore()
	ctx := context.Background()

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		run := domain.RunSummary{RunID: id, StartedAt: start.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, store.SaveRun(ctx, run, nil))
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-1", runs[2].ID)

	runs, err = store.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-3", runs[0].ID)
}

func TestFindingStore_ConcurrentAccess(t *testing.T) {
	store := NewFindingStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			run := domain.RunSummary{RunID: string(rune('a' + id))}
			_ = store.SaveRun(ctx, run, []domain.Record{record("user", "shared@example.com")})
			_, _ = store.Seen(ctx, "user", "shared@example.com")
		}(i)
	}
	wg.Wait()

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 10)
}

func TestFindingStore_Close(t *testing.T) {
	assert.NoError(t, NewFindingStore().Close())
}
