package ipc

import "vigil/internal/api"

// QueueItem mirrors the HTTP API queue DTO for IPC callers.
type QueueItem = api.QueueItem

// SubmitRequest enqueues a URL.
type SubmitRequest struct {
	URL string `json:"url"`
}

// SubmitResponse reports the intake outcome.
type SubmitResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
	URL      string `json:"url"`
}

// QueueListRequest filters queue listing by status.
type QueueListRequest struct {
	Statuses []string `json:"statuses"`
}

// QueueListResponse contains queue entries.
type QueueListResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueRemoveRequest removes a single item by id.
type QueueRemoveRequest struct {
	ID int64 `json:"id"`
}

// QueueRemoveResponse reports whether the item was deleted.
type QueueRemoveResponse struct {
	Deleted bool `json:"deleted"`
}

// QueueRetryRequest retries failed items. Empty list means all failed items.
type QueueRetryRequest struct {
	IDs []int64 `json:"ids"`
}

// QueueRetryResponse reports number of retried items.
type QueueRetryResponse struct {
	Updated int64 `json:"updated"`
}

// QueueClearRequest removes all items except those currently downloading.
type QueueClearRequest struct{}

// QueueClearResponse reports number of removed entries.
type QueueClearResponse struct {
	Removed int64 `json:"removed"`
}

// QueueClearCompletedRequest removes completed items.
type QueueClearCompletedRequest struct{}

// QueueClearCompletedResponse reports number of removed entries.
type QueueClearCompletedResponse struct {
	Removed int64 `json:"removed"`
}

// QueueClearFailedRequest removes failed items.
type QueueClearFailedRequest struct{}

// QueueClearFailedResponse reports number of removed entries.
type QueueClearFailedResponse struct {
	Removed int64 `json:"removed"`
}

// QueueHealthRequest fetches aggregate diagnostics.
type QueueHealthRequest struct{}

// QueueHealthResponse reports queue health information.
type QueueHealthResponse struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Downloading int `json:"downloading"`
	Completed   int `json:"completed"`
	Failed      int `json:"failed"`
}

// SweepRequest triggers an immediate sweep.
type SweepRequest struct{}

// SweepResponse indicates whether a sweep was started.
type SweepResponse struct {
	Started bool `json:"started"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running     bool              `json:"running"`
	PID         int               `json:"pid"`
	QueueDBPath string            `json:"queue_db_path"`
	LockPath    string            `json:"lock_path"`
	DownloadDir string            `json:"download_dir"`
	QueueStats  map[string]int    `json:"queue_stats"`
	SweepActive bool              `json:"sweep_active"`
	LastSweepAt string            `json:"last_sweep_at"`
	LastSweep   *api.SweepSummary `json:"last_sweep"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}
