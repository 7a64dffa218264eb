package toolchat

import (
	"context"
	"time"

	"github.com/Desarso/toolchat/sessions"
)

// Re-export session types so callers only need the root package.
type HTTPSession = sessions.HTTPSession
type AgentError = sessions.AgentError
type PanicError = sessions.PanicError
type AgentInterface = sessions.AgentInterface
type WorkerPool = sessions.WorkerPool

var _ AgentInterface = (*Agent)(nil)

func NewHTTPSession(requestID string, agent *Agent, pool *WorkerPool, timeout time.Duration) *HTTPSession {
	return sessions.NewHTTPSession(requestID, agent, pool, timeout)
}

func NewWorkerPool(size int) *WorkerPool {
	return sessions.NewWorkerPool(size)
}

// WithRequestID tags ctx with the id under which traces are stored.
func WithRequestID(ctx context.Context, id string) context.Context {
	return sessions.WithRequestID(ctx, id)
}
