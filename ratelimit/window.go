// Package ratelimit throttles model invocations with a rolling time window.
//
// A Window remembers the timestamps of the most recent calls (at most Limit of
// them). Once the window is full a caller must wait until the oldest entry is
// older than the window before its own call is recorded.
package ratelimit

import (
	"context"
	"log"
	"os"
	"sync"
	"time"
)

const (
	DefaultLimit  = 6
	DefaultWindow = 60 * time.Second
)

// Window is a process-wide rolling-window limiter. It is safe for concurrent use;
// all callers share one budget.
type Window struct {
	limit  int
	window time.Duration

	mu    sync.Mutex
	times []time.Time // FIFO, oldest first, len <= limit

	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	logger *log.Logger
}

type Option func(*Window)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Window) { w.now = now }
}

// WithSleeper replaces the context-aware sleep used while waiting for capacity.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(w *Window) { w.sleep = sleep }
}

func WithLogger(logger *log.Logger) Option {
	return func(w *Window) { w.logger = logger }
}

// New creates a limiter allowing limit calls per window.
func New(limit int, window time.Duration, opts ...Option) *Window {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	w := &Window{
		limit:  limit,
		window: window,
		times:  make([]time.Time, 0, limit),
		now:    time.Now,
		sleep:  sleepContext,
		logger: log.New(os.Stdout, "[RateLimit] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewDefault returns the 6 calls / 60 seconds limiter used in front of the model.
func NewDefault(opts ...Option) *Window {
	return New(DefaultLimit, DefaultWindow, opts...)
}

// WouldBlock reports whether an Acquire issued now would have to wait.
func (w *Window) WouldBlock() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, blocked := w.waitLocked(w.now())
	return blocked
}

// Acquire blocks until a slot is free in the window and records the call.
// The only error it returns is the context's, when ctx ends while waiting.
func (w *Window) Acquire(ctx context.Context) error {
	for {
		w.mu.Lock()
		now := w.now()
		wait, blocked := w.waitLocked(now)
		if !blocked {
			w.times = append(w.times, now)
			w.mu.Unlock()
			return nil
		}
		w.mu.Unlock()

		w.logger.Printf("Waiting %.2f seconds to respect %d/%s rate limit.", wait.Seconds(), w.limit, w.window)
		if err := w.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Len returns the number of calls currently remembered.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.times)
}

// Snapshot returns a copy of the remembered call times, oldest first.
func (w *Window) Snapshot() []time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]time.Time, len(w.times))
	copy(out, w.times)
	return out
}

// waitLocked evicts expired entries and reports how long a caller must wait.
// Must be called with mu held.
func (w *Window) waitLocked(now time.Time) (time.Duration, bool) {
	drop := 0
	for drop < len(w.times) && now.Sub(w.times[drop]) >= w.window {
		drop++
	}
	if drop > 0 {
		w.times = append(w.times[:0], w.times[drop:]...)
	}
	if len(w.times) < w.limit {
		return 0, false
	}
	return w.window - now.Sub(w.times[0]), true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
