package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ledgerdash/internal/amqp"
	"ledgerdash/internal/log"
)

// Reloader re-reads the ledger from its source
type Reloader interface {
	Reload(ctx context.Context) (int, error)
}

// RefreshWorkerConfig holds configuration for the refresh worker
type RefreshWorkerConfig struct {
	// Interval between periodic reloads; zero disables the ticker and the
	// worker only reacts to notifications
	Interval time.Duration
}

// DefaultRefreshWorkerConfig returns sensible defaults
func DefaultRefreshWorkerConfig() RefreshWorkerConfig {
	return RefreshWorkerConfig{Interval: time.Minute}
}

// RefreshWorker keeps the dashboard in step with its source: it reloads on
// start, on every tick and on every ledger changed notification.
type RefreshWorker struct {
	target Reloader
	config RefreshWorkerConfig
	logger *log.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewRefreshWorker creates a new refresh worker
func NewRefreshWorker(target Reloader, config RefreshWorkerConfig, logger *log.Logger) *RefreshWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &RefreshWorker{
		target: target,
		config: config,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// Start begins the refresh loop. Returns an error if already running.
func (w *RefreshWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("refresh worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx)

	w.logger.InfoContext(ctx, "Refresh worker started", "interval", w.config.Interval)
	return nil
}

// Stop signals the loop and waits for it to finish
func (w *RefreshWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		w.logger.InfoContext(ctx, "Refresh worker stopped gracefully")
	case <-ctx.Done():
		w.logger.WarnContext(ctx, "Refresh worker stop timed out")
		return ctx.Err()
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	return nil
}

// IsRunning returns whether the worker is currently running
func (w *RefreshWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// HandleLedgerChanged reloads in response to a notification. A returned
// error makes the consumer requeue the message.
func (w *RefreshWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	w.logger.InfoContext(ctx, "Ledger changed notification received",
		log.FieldSource, msg.Source,
		log.FieldRecords, msg.Rows,
		"published_at", msg.Timestamp)

	if _, err := w.target.Reload(ctx); err != nil {
		return fmt.Errorf("reload after notification: %w", err)
	}
	return nil
}

func (w *RefreshWorker) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	var tick <-chan time.Time
	if w.config.Interval > 0 {
		ticker := time.NewTicker(w.config.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	w.refresh(ctx)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-tick:
			w.refresh(ctx)
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context) {
	start := time.Now()
	n, err := w.target.Reload(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Periodic reload failed", log.FieldOperation, log.OpReload, log.FieldError, err)
		return
	}
	w.logger.DebugContext(ctx, "Periodic reload done",
		log.FieldOperation, log.OpReload,
		log.FieldRecords, n,
		log.FieldDuration, time.Since(start).Milliseconds())
}
