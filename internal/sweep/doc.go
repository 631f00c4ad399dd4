// Package sweep drains the download queue, sequentially fetching every
// eligible item, and schedules the daily sweep run.
package sweep
