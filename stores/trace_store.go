package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ExecutionTrace represents a single trace event stored in the database.
// Indexed by request_id and tool_call_id for retrieval.
type ExecutionTrace struct {
	ID          uint           `gorm:"primarykey" json:"-"`
	CreatedAt   time.Time      `gorm:"index" json:"-"`
	RequestID   string         `gorm:"index:idx_trace_req;not null" json:"request_id"`
	ToolCallID  string         `gorm:"index:idx_trace_tool" json:"tool_call_id,omitempty"`
	TraceID     string         `gorm:"not null" json:"trace_id"`
	Kind        string         `gorm:"not null" json:"kind"` // model_turn, tool_call
	Tool        string         `json:"tool,omitempty"`
	Turn        int            `json:"turn"`
	Status      string         `gorm:"not null" json:"status"` // end, error
	Label       string         `json:"label"`
	DetailsJSON string         `gorm:"type:text" json:"-"`
	Details     map[string]any `gorm:"-" json:"details,omitempty"` // computed from DetailsJSON
	Timestamp   int64          `gorm:"not null" json:"timestamp"`
	DurationMS  int64          `json:"duration_ms,omitempty"`
}

// BeforeSave marshals Details to DetailsJSON
func (t *ExecutionTrace) BeforeSave(tx *gorm.DB) error {
	if t.Details != nil {
		data, err := json.Marshal(t.Details)
		if err != nil {
			return err
		}
		t.DetailsJSON = string(data)
	}
	return nil
}

// AfterFind unmarshals DetailsJSON to Details
func (t *ExecutionTrace) AfterFind(tx *gorm.DB) error {
	if t.DetailsJSON != "" {
		return json.Unmarshal([]byte(t.DetailsJSON), &t.Details)
	}
	return nil
}

// GORMTraceStore implements TraceStore for SQLite/PostgreSQL via GORM
type GORMTraceStore struct {
	db *gorm.DB
}

// NewGORMTraceStore creates a trace store from an existing GORM database connection
func NewGORMTraceStore(db *gorm.DB) (*GORMTraceStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if err := db.AutoMigrate(&ExecutionTrace{}); err != nil {
		return nil, fmt.Errorf("failed to migrate execution_traces table: %w", err)
	}
	return &GORMTraceStore{db: db}, nil
}

func (s *GORMTraceStore) SaveTrace(ctx context.Context, trace *ExecutionTrace) error {
	return s.db.WithContext(ctx).Create(trace).Error
}

func (s *GORMTraceStore) SaveTraces(ctx context.Context, traces []*ExecutionTrace) error {
	if len(traces) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(traces, 100).Error
}

func (s *GORMTraceStore) GetTracesByRequest(ctx context.Context, requestID string) ([]*ExecutionTrace, error) {
	var traces []*ExecutionTrace
	err := s.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("timestamp ASC, id ASC").
		Find(&traces).Error
	return traces, err
}

func (s *GORMTraceStore) DeleteTracesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&ExecutionTrace{})
	return res.RowsAffected, res.Error
}

// Close closes the underlying database connection
func (s *GORMTraceStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
