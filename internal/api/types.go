package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// QueueItem describes a queue entry in a transport-friendly format.
type QueueItem struct {
	ID           int64  `json:"id"`
	URL          string `json:"url"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// QueueListResponse wraps a collection of queue items.
type QueueListResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueHealth summarizes per-status queue counts.
type QueueHealth struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Downloading int `json:"downloading"`
	Completed   int `json:"completed"`
	Failed      int `json:"failed"`
}

// SubmitRequest carries a URL submission.
type SubmitRequest struct {
	URL string `json:"url"`
}

// SubmitResponse reports the intake outcome for a submission.
type SubmitResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	URL      string `json:"url"`
}

// RemoveResponse reports whether a queue entry was deleted.
type RemoveResponse struct {
	Deleted bool `json:"deleted"`
}

// RetryResponse reports how many failed entries were requeued.
type RetryResponse struct {
	Updated int64 `json:"updated"`
}

// ClearResponse reports how many entries a clear operation removed.
type ClearResponse struct {
	Removed int64 `json:"removed"`
}

// SweepResponse reports whether a sweep was started.
type SweepResponse struct {
	Started bool `json:"started"`
}

// SweepStatus describes the scheduler state and the last finished run.
type SweepStatus struct {
	Active      bool          `json:"active"`
	LastRunAt   string        `json:"lastRunAt,omitempty"`
	LastSummary *SweepSummary `json:"lastSummary,omitempty"`
}

// SweepSummary mirrors the executor's per-run summary.
type SweepSummary struct {
	Selected        int     `json:"selected"`
	Completed       int     `json:"completed"`
	Failed          int     `json:"failed"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool        `json:"running"`
	PID          int         `json:"pid"`
	QueueDBPath  string      `json:"queueDbPath"`
	LockFilePath string      `json:"lockFilePath"`
	DownloadDir  string      `json:"downloadDir"`
	Queue        QueueHealth `json:"queue"`
	Sweep        SweepStatus `json:"sweep"`
}
