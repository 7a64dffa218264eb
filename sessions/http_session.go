package sessions

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/Desarso/toolchat/models"
)

type runResult struct {
	messages []models.Message
	err      error
}

// Run sanitizes history, runs the agent on the worker pool and returns the
// content of the final message. Agent failures come back as *AgentError;
// panics as *PanicError; anything else is a plain error.
func (s *HTTPSession) Run(ctx context.Context, history []models.Message) (string, error) {
	ctx = WithRequestID(ctx, s.RequestID)
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	if issues := DetectHistoryIssues(history); len(issues) > 0 {
		s.Logger.Printf("Inbound history has issues: %v", issues)
	}
	history = SanitizeHistory(history)
	if len(history) == 0 {
		return "", NewAgentError(fmt.Errorf("no usable messages in request"))
	}

	done := make(chan runResult, 1)
	err := s.Pool.Go(ctx, func() {
		defer func() {
			if r := recover(); r != nil {
				s.Logger.Printf("Agent panic: %v\n%s", r, debug.Stack())
				done <- runResult{err: &PanicError{Value: r}}
			}
		}()
		messages, err := s.Agent.Invoke(ctx, history)
		done <- runResult{messages: messages, err: err}
	})
	if err != nil {
		return "", err
	}

	select {
	case res := <-done:
		if res.err != nil {
			if _, ok := res.err.(*PanicError); ok {
				return "", res.err
			}
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(res.err, ctxErr) {
				return "", fmt.Errorf("request ended before the agent finished: %w", ctxErr)
			}
			s.Logger.Printf("Agent error: %v", res.err)
			return "", NewAgentError(res.err)
		}
		s.Logger.Printf("Agent finished with %d messages", len(res.messages))
		return finalContent(res.messages), nil
	case <-ctx.Done():
		return "", fmt.Errorf("request ended before the agent finished: %w", ctx.Err())
	}
}

func finalContent(messages []models.Message) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[len(messages)-1].Content
}

type requestIDKey struct{}

// WithRequestID tags ctx with the id used for logs and traces of one request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
