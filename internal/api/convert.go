package api

import (
	"time"

	"vigil/internal/queue"
	"vigil/internal/sweep"
)

// FromQueueItem converts a queue record to its API representation.
func FromQueueItem(item *queue.Item) QueueItem {
	if item == nil {
		return QueueItem{}
	}
	dto := QueueItem{
		ID:           item.ID,
		URL:          item.URL,
		Status:       string(item.Status),
		ErrorMessage: item.ErrorMessage,
	}
	if !item.CreatedAt.IsZero() {
		dto.CreatedAt = item.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !item.UpdatedAt.IsZero() {
		dto.UpdatedAt = item.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromQueueItems converts a slice of queue records into API DTOs.
func FromQueueItems(items []*queue.Item) []QueueItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]QueueItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromQueueItem(item))
	}
	return out
}

// FromHealthSummary converts store health counts to the API payload.
func FromHealthSummary(health queue.HealthSummary) QueueHealth {
	return QueueHealth{
		Total:       health.Total,
		Pending:     health.Pending,
		Downloading: health.Downloading,
		Completed:   health.Completed,
		Failed:      health.Failed,
	}
}

// FromSweepSummary converts an executor summary to the API payload.
func FromSweepSummary(summary *sweep.Summary, at time.Time) SweepStatus {
	status := SweepStatus{}
	if summary == nil {
		return status
	}
	status.LastSummary = &SweepSummary{
		Selected:        summary.Selected,
		Completed:       summary.Completed,
		Failed:          summary.Failed,
		DurationSeconds: summary.Duration.Seconds(),
	}
	if !at.IsZero() {
		status.LastRunAt = at.UTC().Format(dateTimeFormat)
	}
	return status
}
