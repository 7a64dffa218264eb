package sessions

import (
	"fmt"
	"log"
	"os"
	"time"
)

// NewHTTPSession creates a new HTTP session
func NewHTTPSession(requestID string, agent AgentInterface, pool *WorkerPool, timeout time.Duration) *HTTPSession {
	logger := log.New(os.Stdout, fmt.Sprintf("[HTTP %s] ", requestID), log.LstdFlags)

	return &HTTPSession{
		Agent:     agent,
		RequestID: requestID,
		Pool:      pool,
		Timeout:   timeout,
		Logger:    logger,
	}
}
