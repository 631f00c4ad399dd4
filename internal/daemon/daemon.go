package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"vigil/internal/config"
	"vigil/internal/intake"
	"vigil/internal/logging"
	"vigil/internal/queue"
	"vigil/internal/sweep"
)

// Daemon owns the background services and enforces single-instance
// execution through a file lock.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *queue.Store
	gateway   *intake.Gateway
	scheduler *sweep.Scheduler

	lockPath string
	lock     *flock.Flock

	apiServer *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	QueueDBPath  string
	LockFilePath string
	DownloadDir  string
	Queue        queue.HealthSummary
	SweepActive  bool
	LastSweep    *sweep.Summary
	LastSweepAt  time.Time
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, gateway *intake.Gateway, scheduler *sweep.Scheduler, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || gateway == nil || scheduler == nil {
		return nil, errors.New("daemon requires config, store, gateway, and scheduler")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     store,
		gateway:   gateway,
		scheduler: scheduler,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	d.apiServer = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the instance lock, recovers interrupted downloads, and
// launches the scheduler and the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another vigil daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})

	// Items stranded in downloading by a previous crash are failed so
	// the next sweep picks them up again.
	if count, err := d.store.ResetStuckDownloading(runCtx); err != nil {
		d.logger.Warn("failed to reset interrupted downloads", logging.Error(err))
	} else if count > 0 {
		d.logger.Info("reset interrupted downloads", logging.Int64("count", count))
	}

	d.scheduler.Start(runCtx)
	if err := d.apiServer.start(runCtx); err != nil {
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return err
	}

	d.running.Store(true)
	d.logger.Info("vigil daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts background services and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.CompareAndSwap(true, false) {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.apiServer.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	close(d.done)
	d.logger.Info("vigil daemon stopped")
}

// Stopped returns a channel closed when Stop completes. It is nil before
// the first Start.
func (d *Daemon) Stopped() <-chan struct{} {
	return d.done
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Submit validates and enqueues a URL.
func (d *Daemon) Submit(ctx context.Context, url string) intake.Result {
	return d.gateway.Submit(ctx, url)
}

// ListQueue returns queue items filtered by optional statuses.
func (d *Daemon) ListQueue(ctx context.Context, statuses []queue.Status) ([]*queue.Item, error) {
	return d.store.List(ctx, statuses...)
}

// Remove deletes a queue item unless it is downloading or completed.
func (d *Daemon) Remove(ctx context.Context, id int64) (bool, error) {
	return d.store.DeleteIfSafe(ctx, id)
}

// RetryFailed clears failure detail on failed items (optionally a subset)
// so the next sweep retries them with a clean slate.
func (d *Daemon) RetryFailed(ctx context.Context, ids []int64) (int64, error) {
	return d.store.RetryFailed(ctx, ids...)
}

// ClearQueue removes all queue items except those currently downloading.
func (d *Daemon) ClearQueue(ctx context.Context) (int64, error) {
	return d.store.Clear(ctx)
}

// ClearCompleted removes only completed queue items.
func (d *Daemon) ClearCompleted(ctx context.Context) (int64, error) {
	return d.store.ClearCompleted(ctx)
}

// ClearFailed removes only failed queue items.
func (d *Daemon) ClearFailed(ctx context.Context) (int64, error) {
	return d.store.ClearFailed(ctx)
}

// TriggerSweep requests an immediate sweep. It reports false when a
// sweep is already in progress.
func (d *Daemon) TriggerSweep() bool {
	started := d.scheduler.TriggerNow()
	if !started {
		d.logger.Info("sweep trigger dropped, sweep already running")
	}
	return started
}

// SweepActive reports whether a sweep is currently running.
func (d *Daemon) SweepActive() bool {
	return d.scheduler.Active()
}

// QueueHealth returns aggregate queue diagnostics.
func (d *Daemon) QueueHealth(ctx context.Context) (queue.HealthSummary, error) {
	return d.store.Health(ctx)
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	health, err := d.store.Health(ctx)
	if err != nil {
		d.logger.Warn("queue health unavailable", logging.Error(err))
	}
	last, at := d.scheduler.LastSummary()
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		QueueDBPath:  d.cfg.QueueDBPath(),
		LockFilePath: d.lockPath,
		DownloadDir:  d.cfg.Paths.DownloadDir,
		Queue:        health,
		SweepActive:  d.scheduler.Active(),
		LastSweep:    last,
		LastSweepAt:  at,
	}
}

// APIAddr returns the bound HTTP API address, empty before Start.
func (d *Daemon) APIAddr() string {
	return d.apiServer.addr()
}
