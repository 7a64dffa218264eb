package stores

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// Retention periodically prunes traces older than MaxAge.
type Retention struct {
	Store    TraceStore
	MaxAge   time.Duration
	Schedule string // standard cron spec or descriptor such as "@daily"
	Logger   *log.Logger

	now  func() time.Time
	cron *cron.Cron
}

// NewRetention creates a retention job. It does nothing until Start is called.
func NewRetention(store TraceStore, maxAge time.Duration, schedule string) *Retention {
	return &Retention{
		Store:    store,
		MaxAge:   maxAge,
		Schedule: schedule,
		Logger:   log.New(os.Stdout, "[Retention] ", log.LstdFlags),
		now:      time.Now,
	}
}

// Start registers the prune job and starts the scheduler.
func (r *Retention) Start() error {
	if r.MaxAge <= 0 {
		return fmt.Errorf("retention max age must be positive, got %s", r.MaxAge)
	}
	if _, err := cron.ParseStandard(r.Schedule); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", r.Schedule, err)
	}

	r.cron = cron.New()
	if _, err := r.cron.AddFunc(r.Schedule, func() {
		if _, err := r.Prune(context.Background()); err != nil {
			r.Logger.Printf("Prune failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule retention: %w", err)
	}
	r.cron.Start()
	r.Logger.Printf("Pruning traces older than %s on schedule %q", r.MaxAge, r.Schedule)
	return nil
}

// Prune deletes traces older than MaxAge once.
func (r *Retention) Prune(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-r.MaxAge)
	n, err := r.Store.DeleteTracesBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting traces before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if n > 0 {
		r.Logger.Printf("Pruned %d traces older than %s", n, cutoff.Format(time.RFC3339))
	}
	return n, nil
}

// Stop stops the scheduler and waits for a running prune to finish.
func (r *Retention) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}
