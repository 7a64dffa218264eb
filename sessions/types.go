package sessions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Desarso/toolchat/models"
)

// AgentError wraps a failure raised while the agent was running. The HTTP
// layer reports it to the client as a 400 with Message.
type AgentError struct {
	Message string
	Err     error
}

func (e *AgentError) Error() string {
	return e.Message
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// NewAgentError wraps err, keeping its text as the client-facing message.
func NewAgentError(err error) *AgentError {
	return &AgentError{Message: err.Error(), Err: err}
}

// IsAgentError reports whether err is, or wraps, an *AgentError.
func IsAgentError(err error) bool {
	var agentErr *AgentError
	return errors.As(err, &agentErr)
}

// PanicError is returned when the agent goroutine panicked. Value is for logs only.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("agent panicked: %v", e.Value)
}

// AgentInterface defines the interface that agents must implement
type AgentInterface interface {
	Invoke(ctx context.Context, messages []models.Message) ([]models.Message, error)
}

// HTTPSession handles one chat request.
type HTTPSession struct {
	Agent     AgentInterface
	RequestID string
	Pool      *WorkerPool
	Timeout   time.Duration // 0 means no deadline beyond the caller's context
	Logger    *log.Logger
}
