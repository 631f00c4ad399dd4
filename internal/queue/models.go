package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
//
// Transitions: pending -> downloading -> completed | failed, and
// failed -> downloading when a later sweep retries the item. Completed is
// terminal; nothing moves back to pending.
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusDownloading,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// EligibleStatuses are the statuses a sweep selects for processing.
var EligibleStatuses = []Status{StatusPending, StatusFailed}

// DeletableStatuses are the statuses an operator may delete an item from.
// Items that are in flight or already downloaded stay in the queue.
var DeletableStatuses = []Status{StatusPending, StatusFailed}

// Item represents a queue item persisted in SQLite.
type Item struct {
	ID           int64
	URL          string
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HealthSummary describes aggregated queue counts per lifecycle state.
type HealthSummary struct {
	Total       int
	Pending     int
	Downloading int
	Completed   int
	Failed      int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsDeletable reports whether an item in this status may be removed.
func (s Status) IsDeletable() bool {
	for _, status := range DeletableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the item's lifecycle.
// Failed items are terminal only until the next sweep retries them.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}
