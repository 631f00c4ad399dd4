package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"vigil/internal/fetch"
	"vigil/internal/logging"
	"vigil/internal/queue"
)

// Summary reports the outcome of one sweep run.
type Summary struct {
	Selected  int           `json:"selected"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// Executor drains the queue one item at a time. A failed item never
// aborts the sweep; it is marked failed and the run moves on.
type Executor struct {
	store        *queue.Store
	fetcher      fetch.Fetcher
	downloadDir  string
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// NewExecutor builds an Executor. fetchTimeout of zero leaves the
// per-item deadline to the fetch tool.
func NewExecutor(store *queue.Store, fetcher fetch.Fetcher, downloadDir string, fetchTimeout time.Duration, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		store:        store,
		fetcher:      fetcher,
		downloadDir:  downloadDir,
		fetchTimeout: fetchTimeout,
		logger:       logging.NewComponentLogger(logger, "sweep"),
	}
}

// Run selects every pending and failed item and downloads each in turn.
// Only a failed eligibility read aborts the run; everything else is
// per-item and recorded in the summary.
func (e *Executor) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()
	log := e.logger.With(logging.String(logging.FieldSweepRunID, runID))
	started := time.Now()

	items, err := e.store.ListEligible(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("select eligible items: %w", err)
	}
	if len(items) == 0 {
		log.Info("nothing to download")
		return Summary{Duration: time.Since(started)}, nil
	}

	summary := Summary{Selected: len(items)}
	log.Info("sweep started", logging.Int("selected", len(items)))

	for _, item := range items {
		if ctx.Err() != nil {
			log.Warn("sweep interrupted", logging.Error(ctx.Err()))
			break
		}
		switch e.processItem(ctx, log, item) {
		case itemCompleted:
			summary.Completed++
		case itemFailed:
			summary.Failed++
		case itemSkipped:
		}
	}

	summary.Duration = time.Since(started)
	log.Info("sweep finished",
		logging.Int("selected", summary.Selected),
		logging.Int("completed", summary.Completed),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration))
	return summary, nil
}

// itemOutcome classifies one item's run within a sweep. Skipped items
// vanished between selection and processing; no fetch was attempted, so
// they count as neither completed nor failed.
type itemOutcome int

const (
	itemCompleted itemOutcome = iota
	itemFailed
	itemSkipped
)

func (e *Executor) processItem(ctx context.Context, log *slog.Logger, item *queue.Item) itemOutcome {
	itemLog := log.With(
		logging.Int64(logging.FieldItemID, item.ID),
		logging.String(logging.FieldURL, item.URL))

	// Persist downloading before the fetch so a crash mid-download is
	// visible in the queue.
	updated, err := e.store.SetStatus(ctx, item.ID, queue.StatusDownloading)
	if err != nil {
		itemLog.Error("failed to mark item downloading", logging.Error(err))
		return itemFailed
	}
	if !updated {
		itemLog.Warn("item removed before download, skipping")
		return itemSkipped
	}

	fetchCtx := ctx
	if e.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, e.fetchTimeout)
		defer cancel()
	}

	if err := e.fetcher.Fetch(fetchCtx, item.URL, e.outputTemplate()); err != nil {
		itemLog.Error("download failed", logging.Error(err))
		if _, markErr := e.store.MarkFailed(ctx, item.ID, err.Error()); markErr != nil {
			itemLog.Error("failed to record failure", logging.Error(markErr))
		}
		return itemFailed
	}

	if _, err := e.store.SetStatus(ctx, item.ID, queue.StatusCompleted); err != nil {
		itemLog.Error("failed to mark item completed", logging.Error(err))
		return itemFailed
	}
	itemLog.Info("download completed")
	return itemCompleted
}

// outputTemplate buckets downloads under a YYYY-MM directory so the
// download folder stays browsable month by month.
func (e *Executor) outputTemplate() string {
	bucket := time.Now().Format("2006-01")
	return filepath.Join(e.downloadDir, bucket, "%(extractor)s", "%(title)s.%(ext)s")
}
