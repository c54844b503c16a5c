package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
)

// SchedulerUserID is recorded as performedBy for scheduled fetches.
const SchedulerUserID = "system:scheduler"

// RateFetcher runs one fetch-and-apply cycle.
type RateFetcher interface {
	FetchAndApply(ctx context.Context, userID string) (*domain.CurrencyRateFetchLog, error)
}

// RateFetchTriggerConfig holds configuration for the rate fetch trigger
type RateFetchTriggerConfig struct {
	// Interval between fetches. Zero or negative disables the trigger.
	Interval time.Duration

	// RunOnStart fetches once immediately instead of waiting a full interval.
	RunOnStart bool
}

// RateFetchTrigger periodically pulls exchange rates from the provider chain.
type RateFetchTrigger struct {
	config  RateFetchTriggerConfig
	fetcher RateFetcher
	logger  *slog.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewRateFetchTrigger creates a new rate fetch trigger
func NewRateFetchTrigger(config RateFetchTriggerConfig, fetcher RateFetcher, logger *slog.Logger) *RateFetchTrigger {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateFetchTrigger{
		config:  config,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Start starts the trigger loop. It is a no-op when already running or disabled.
func (t *RateFetchTrigger) Start(ctx context.Context) error {
	if t.config.Interval <= 0 {
		t.logger.Info("Rate fetch trigger disabled")
		return nil
	}

	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.mu.Unlock()

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Rate fetch trigger started",
		slog.Duration("interval", t.config.Interval),
		slog.Bool("run_on_start", t.config.RunOnStart),
	)
	return nil
}

// Stop stops the trigger and waits for an in-flight fetch, bounded by ctx.
func (t *RateFetchTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	cancel := t.cancel
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Rate fetch trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop fetches on every tick until the context is cancelled
func (t *RateFetchTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	if t.config.RunOnStart {
		t.trigger(ctx)
	}

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.trigger(ctx)
		}
	}
}

func (t *RateFetchTrigger) trigger(ctx context.Context) {
	log, err := t.fetcher.FetchAndApply(ctx, SchedulerUserID)
	if err != nil {
		t.logger.Error("Scheduled rate fetch failed", slog.String("error", err.Error()))
		return
	}
	t.logger.Info("Scheduled rate fetch finished",
		slog.String("fetch_id", log.FetchID),
		slog.String("status", string(log.Status)),
		slog.String("provider", log.Provider),
		slog.Int("updated", log.UpdatedCount),
		slog.Int("unchanged", log.UnchangedCount),
	)
}
