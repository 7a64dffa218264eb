package stores

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *GORMTraceStore {
	t.Helper()
	store, err := NewSQLiteTraceStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGetTracesByRequest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveTraces(ctx, []*ExecutionTrace{
		{RequestID: "req-1", TraceID: "t1", Kind: KindModelTurn, Turn: 1, Status: StatusEnd, Timestamp: 1},
		{RequestID: "req-1", TraceID: "t2", Kind: KindToolCall, Tool: "add", ToolCallID: "call-1", Turn: 2, Status: StatusEnd, Timestamp: 2,
			Details: map[string]any{"args": map[string]any{"a": 2.0, "b": 2.0}}},
		{RequestID: "req-2", TraceID: "t3", Kind: KindModelTurn, Turn: 1, Status: StatusError, Timestamp: 3},
	}))

	traces, err := store.GetTracesByRequest(ctx, "req-1")
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Equal(t, KindModelTurn, traces[0].Kind)
	assert.Equal(t, "add", traces[1].Tool)
	assert.Equal(t, map[string]any{"a": 2.0, "b": 2.0}, traces[1].Details["args"])
}

func TestDeleteTracesBefore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	old := &ExecutionTrace{RequestID: "old", TraceID: "a", Kind: KindModelTurn, Status: StatusEnd, Timestamp: 1, CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &ExecutionTrace{RequestID: "fresh", TraceID: "b", Kind: KindModelTurn, Status: StatusEnd, Timestamp: 2}
	require.NoError(t, store.SaveTrace(ctx, old))
	require.NoError(t, store.SaveTrace(ctx, fresh))

	n, err := store.DeleteTracesBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := store.GetTracesByRequest(ctx, "fresh")
	require.NoError(t, err)
	assert.Len(t, left, 1)
	gone, err := store.GetTracesByRequest(ctx, "old")
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestRetentionPrune(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveTrace(ctx, &ExecutionTrace{RequestID: "r", TraceID: "a", Kind: KindToolCall, Status: StatusEnd, Timestamp: 1, CreatedAt: now.Add(-8 * 24 * time.Hour)}))
	require.NoError(t, store.SaveTrace(ctx, &ExecutionTrace{RequestID: "r", TraceID: "b", Kind: KindToolCall, Status: StatusEnd, Timestamp: 2, CreatedAt: now.Add(-time.Hour)}))

	r := NewRetention(store, 7*24*time.Hour, "@daily")
	r.Logger = log.New(io.Discard, "", 0)
	r.now = func() time.Time { return now }

	n, err := r.Prune(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRetentionRejectsBadSchedule(t *testing.T) {
	r := NewRetention(NopTraceStore{}, time.Hour, "not a schedule")
	assert.Error(t, r.Start())

	r = NewRetention(NopTraceStore{}, 0, "@daily")
	assert.Error(t, r.Start())
}

func TestNewTraceStoreFactory(t *testing.T) {
	s, err := NewTraceStore(NewStoreConfig("", ""))
	require.NoError(t, err)
	assert.IsType(t, NopTraceStore{}, s)

	_, err = NewTraceStore(NewStoreConfig("mysql", "x"))
	assert.Error(t, err)

	_, err = NewTraceStore(NewStoreConfig("postgres", ""))
	assert.Error(t, err)

	s, err = NewTraceStore(NewStoreConfig("sqlite", ":memory:"))
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
