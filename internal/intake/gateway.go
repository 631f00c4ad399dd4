package intake

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"vigil/internal/logging"
	"vigil/internal/queue"
)

// Reason explains why a submission was rejected.
type Reason string

const (
	ReasonInvalidScheme Reason = "invalid_scheme"
	ReasonStorageError  Reason = "storage_error"
)

// Result reports the outcome of a submission. Reason is empty when the
// submission was accepted.
type Result struct {
	Accepted bool
	Reason   Reason
	URL      string
}

// Gateway accepts URLs on behalf of the queue. Submissions are
// idempotent: re-submitting a queued URL is accepted without creating
// a duplicate row.
type Gateway struct {
	store  *queue.Store
	logger *slog.Logger
}

// NewGateway returns a Gateway backed by the given store.
func NewGateway(store *queue.Store, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Gateway{
		store:  store,
		logger: logging.NewComponentLogger(logger, "intake"),
	}
}

// Submit validates raw and enqueues it. Validation failures and storage
// failures both come back as rejected results; storage detail stays in
// the server log and is never echoed to the caller.
func (g *Gateway) Submit(ctx context.Context, raw string) Result {
	trimmed := strings.TrimSpace(raw)
	if !validURL(trimmed) {
		g.logger.Warn("rejected submission",
			logging.String(logging.FieldURL, trimmed),
			logging.String("reason", string(ReasonInvalidScheme)))
		return Result{Reason: ReasonInvalidScheme, URL: trimmed}
	}

	item, inserted, err := g.store.InsertIfAbsent(ctx, trimmed)
	if err != nil {
		g.logger.Error("enqueue failed",
			logging.String(logging.FieldURL, trimmed),
			logging.Error(err))
		return Result{Reason: ReasonStorageError, URL: trimmed}
	}
	if inserted {
		g.logger.Info("url queued",
			logging.Int64(logging.FieldItemID, item.ID),
			logging.String(logging.FieldURL, trimmed))
	} else {
		g.logger.Info("url already queued",
			logging.Int64(logging.FieldItemID, item.ID),
			logging.String(logging.FieldURL, trimmed))
	}
	return Result{Accepted: true, URL: trimmed}
}

func validURL(raw string) bool {
	if raw == "" {
		return false
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Host != ""
}
