package testsupport

import (
	"context"
	"testing"

	"vigil/internal/config"
	"vigil/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustInsert enqueues a URL for tests using the provided store.
func MustInsert(t testing.TB, store *queue.Store, url string) *queue.Item {
	t.Helper()

	item, _, err := store.InsertIfAbsent(context.Background(), url)
	if err != nil {
		t.Fatalf("store.InsertIfAbsent: %v", err)
	}
	return item
}

// MustSetStatus forces an item into a status for tests.
func MustSetStatus(t testing.TB, store *queue.Store, id int64, status queue.Status) {
	t.Helper()

	updated, err := store.SetStatus(context.Background(), id, status)
	if err != nil {
		t.Fatalf("store.SetStatus: %v", err)
	}
	if !updated {
		t.Fatalf("store.SetStatus: item %d not found", id)
	}
}
