package stores

import (
	"context"
	"time"
)

// Trace kinds and statuses written by the agent.
const (
	KindModelTurn = "model_turn"
	KindToolCall  = "tool_call"

	StatusEnd   = "end"
	StatusError = "error"
)

// TraceStore persists execution traces of agent runs. Traces are write-mostly:
// conversations themselves are never stored.
type TraceStore interface {
	// SaveTrace saves a single trace event
	SaveTrace(ctx context.Context, trace *ExecutionTrace) error

	// SaveTraces saves multiple trace events in a batch
	SaveTraces(ctx context.Context, traces []*ExecutionTrace) error

	// GetTracesByRequest retrieves all traces of one chat request, oldest first
	GetTracesByRequest(ctx context.Context, requestID string) ([]*ExecutionTrace, error)

	// DeleteTracesBefore removes traces created before cutoff and reports how many went
	DeleteTracesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	Close() error
}

// StoreConfig holds configuration for trace stores
type StoreConfig struct {
	Type       string `json:"type"`       // "sqlite", "postgres" or "" (disabled)
	Connection string `json:"connection"` // connection string
}

// NewStoreConfig creates a new store configuration
func NewStoreConfig(storeType, connection string) *StoreConfig {
	return &StoreConfig{
		Type:       storeType,
		Connection: connection,
	}
}

// NopTraceStore drops every trace. It is used when tracing is disabled.
type NopTraceStore struct{}

func (NopTraceStore) SaveTrace(context.Context, *ExecutionTrace) error    { return nil }
func (NopTraceStore) SaveTraces(context.Context, []*ExecutionTrace) error { return nil }
func (NopTraceStore) Close() error                                        { return nil }
func (NopTraceStore) DeleteTracesBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}
func (NopTraceStore) GetTracesByRequest(context.Context, string) ([]*ExecutionTrace, error) {
	return nil, nil
}
