package sessions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/Desarso/toolchat/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type agentFunc func(ctx context.Context, messages []models.Message) ([]models.Message, error)

func (f agentFunc) Invoke(ctx context.Context, messages []models.Message) ([]models.Message, error) {
	return f(ctx, messages)
}

func newTestSession(agent AgentInterface, pool *WorkerPool, timeout time.Duration) *HTTPSession {
	s := NewHTTPSession("test", agent, pool, timeout)
	s.Logger = log.New(io.Discard, "", 0)
	return s
}

func TestRunReturnsFinalContent(t *testing.T) {
	agent := agentFunc(func(ctx context.Context, messages []models.Message) ([]models.Message, error) {
		return append(messages, models.NewAssistantMessage("4")), nil
	})
	got, err := newTestSession(agent, NewWorkerPool(1), 0).Run(context.Background(), []models.Message{models.NewUserMessage("2+2")})
	require.NoError(t, err)
	assert.Equal(t, "4", got)
}

func TestRunWrapsAgentFailure(t *testing.T) {
	cause := errors.New("model request failed: quota")
	agent := agentFunc(func(context.Context, []models.Message) ([]models.Message, error) {
		return nil, cause
	})
	_, err := newTestSession(agent, NewWorkerPool(1), 0).Run(context.Background(), []models.Message{models.NewUserMessage("hi")})
	require.Error(t, err)
	assert.True(t, IsAgentError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "model request failed: quota", err.Error())
}

func TestRunRecoversPanic(t *testing.T) {
	agent := agentFunc(func(context.Context, []models.Message) ([]models.Message, error) {
		panic("boom")
	})
	pool := NewWorkerPool(1)
	_, err := newTestSession(agent, pool, 0).Run(context.Background(), []models.Message{models.NewUserMessage("hi")})
	require.Error(t, err)
	assert.False(t, IsAgentError(err))
	var panicErr *PanicError
	assert.ErrorAs(t, err, &panicErr)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, pool.Drain(ctx), "slot must be released after a panic")
}

func TestRunRejectsEmptyHistory(t *testing.T) {
	agent := agentFunc(func(context.Context, []models.Message) ([]models.Message, error) {
		t.Error("agent must not run")
		return nil, nil
	})
	_, err := newTestSession(agent, NewWorkerPool(1), 0).Run(context.Background(),
		[]models.Message{models.NewToolMessage("x", "add", "{}")})
	assert.True(t, IsAgentError(err))
}

func TestRunTimeout(t *testing.T) {
	agent := agentFunc(func(ctx context.Context, _ []models.Message) ([]models.Message, error) {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return nil, ctx.Err()
	})
	_, err := newTestSession(agent, NewWorkerPool(1), 20*time.Millisecond).Run(context.Background(),
		[]models.Message{models.NewUserMessage("slow")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, IsAgentError(err))
}

func TestRunCancelledAgentIsNotAgentError(t *testing.T) {
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		agent := agentFunc(func(runCtx context.Context, _ []models.Message) ([]models.Message, error) {
			cancel()
			return nil, fmt.Errorf("waiting for model capacity: %w", runCtx.Err())
		})
		_, err := newTestSession(agent, NewWorkerPool(1), 0).Run(ctx, []models.Message{models.NewUserMessage("hi")})
		require.ErrorIs(t, err, context.Canceled)
		require.False(t, IsAgentError(err), "iteration %d classified a cancelled run as an agent error", i)
	}
}

func TestRunAgentDeadlineWithLiveRequestIsAgentError(t *testing.T) {
	agent := agentFunc(func(context.Context, []models.Message) ([]models.Message, error) {
		return nil, fmt.Errorf("model request failed: %w", context.DeadlineExceeded)
	})
	_, err := newTestSession(agent, NewWorkerPool(1), time.Minute).Run(context.Background(),
		[]models.Message{models.NewUserMessage("hi")})
	assert.True(t, IsAgentError(err))
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(1)
	release := make(chan struct{})
	require.NoError(t, pool.Go(context.Background(), func() { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pool.Go(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	drainCtx, drainCancel := context.WithTimeout(context.Background(), time.Second)
	defer drainCancel()
	assert.NoError(t, pool.Drain(drainCtx))
}
