package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertIfAbsent inserts a new pending item for the URL. Resubmission of a
// known URL is a no-op: the existing row keeps its status and created_at.
// The bool reports whether a new row was created. INSERT OR IGNORE rides on
// the schema's UNIQUE constraint, so concurrent submitters of the same URL
// settle on exactly one row without an application-level check.
func (s *Store) InsertIfAbsent(ctx context.Context, url string) (*Item, bool, error) {
	if url == "" {
		return nil, false, errors.New("url is required")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT OR IGNORE INTO queue_items (url, status, created_at, updated_at)
         VALUES (?, ?, ?, ?)`,
		url,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert url: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	item, err := s.GetByURL(ctx, url)
	if err != nil {
		return nil, false, err
	}
	if item == nil {
		return nil, false, fmt.Errorf("item for %q vanished after insert", url)
	}
	return item, affected > 0, nil
}

// GetByID fetches a queue item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByURL fetches a queue item by its URL.
func (s *Store) GetByURL(ctx context.Context, url string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE url = ?`, url)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by url: %w", err)
	}
	return item, nil
}

// List returns queue items filtered by status set (or all items when no
// status is provided), newest first for display.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + itemColumns + ` FROM queue_items`
	orderClause := ` ORDER BY created_at DESC, id DESC`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListEligible returns pending and failed items oldest first, the order a
// sweep processes them in. Oldest first keeps retries of old failures from
// being starved by fresh submissions.
func (s *Store) ListEligible(ctx context.Context) ([]*Item, error) {
	placeholders := makePlaceholders(len(EligibleStatuses))
	args := make([]any, len(EligibleStatuses))
	for i, status := range EligibleStatuses {
		args[i] = status
	}

	query := `SELECT ` + itemColumns + ` FROM queue_items WHERE status IN (` + placeholders + `) ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list eligible items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteIfSafe deletes the item only when its status allows deletion
// (pending or failed) and reports whether a row was removed. The status
// guard lives in the DELETE statement itself so the check cannot race a
// concurrent transition to downloading.
func (s *Store) DeleteIfSafe(ctx context.Context, id int64) (bool, error) {
	placeholders := makePlaceholders(len(DeletableStatuses))
	args := make([]any, 0, len(DeletableStatuses)+1)
	args = append(args, id)
	for _, status := range DeletableStatuses {
		args = append(args, status)
	}

	res, err := s.execWithRetry(
		ctx,
		`DELETE FROM queue_items WHERE id = ? AND status IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearCompleted removes only completed items from the queue. Completed is
// terminal, so bulk clear is the one maintenance path that may remove such
// rows; single-item DeleteIfSafe still refuses them.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items WHERE status = ?`, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailed removes only failed items from the queue.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items WHERE status = ?`, StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clear failed: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every item that is not currently downloading. An in-flight
// download is never deleted out from under the sweep; the row finishes its
// transition and can be cleared afterwards.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items WHERE status != ?`, StatusDownloading)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}
