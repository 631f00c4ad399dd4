package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"vigil/internal/config"
	"vigil/internal/queue"
	"vigil/internal/testsupport"
)

// directStoreEnv prepares a config file without a running daemon so the CLI
// falls back to opening the queue database directly.
func directStoreEnv(t *testing.T) (cfg *config.Config, configPath, socket string) {
	t.Helper()
	cfg = testsupport.NewConfig(t)
	configPath = filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)
	socket = filepath.Join(t.TempDir(), "missing", "vigil.sock")
	return cfg, configPath, socket
}

func TestAddAndListWithoutDaemon(t *testing.T) {
	_, configPath, socket := directStoreEnv(t)

	stdout, _, err := runCLI(t, []string{"add", "https://example.com/watch?v=1"}, socket, configPath)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, stdout, "Queued https://example.com/watch?v=1")

	stdout, _, err = runCLI(t, []string{"queue", "list"}, socket, configPath)
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	requireContains(t, stdout, "https://example.com/watch?v=1")
	requireContains(t, stdout, string(queue.StatusPending))
}

func TestAddRejectsInvalidURL(t *testing.T) {
	_, configPath, socket := directStoreEnv(t)

	_, _, err := runCLI(t, []string{"add", "ftp://example.com/file"}, socket, configPath)
	if err == nil {
		t.Fatal("expected rejection for non-http URL")
	}
	requireContains(t, err.Error(), "rejected")
}

func TestQueueListEmpty(t *testing.T) {
	_, configPath, socket := directStoreEnv(t)

	stdout, _, err := runCLI(t, []string{"queue", "list"}, socket, configPath)
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	requireContains(t, stdout, "Queue is empty")
}

func TestQueueListStatusFilter(t *testing.T) {
	cfg, configPath, socket := directStoreEnv(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.MustInsert(t, store, "https://example.com/pending")
	done := testsupport.MustInsert(t, store, "https://example.com/done")
	testsupport.MustSetStatus(t, store, done.ID, queue.StatusCompleted)

	stdout, _, err := runCLI(t, []string{"queue", "list", "-s", "completed"}, socket, configPath)
	if err != nil {
		t.Fatalf("queue list -s completed: %v", err)
	}
	requireContains(t, stdout, "https://example.com/done")
	if strings.Contains(stdout, "https://example.com/pending") {
		t.Fatalf("expected filtered output to omit pending item, got %q", stdout)
	}

	_, _, err = runCLI(t, []string{"queue", "list", "-s", "bogus"}, socket, configPath)
	if err == nil {
		t.Fatal("expected error for unknown status filter")
	}
	requireContains(t, err.Error(), "unknown status")
}

func TestQueueRemove(t *testing.T) {
	cfg, configPath, socket := directStoreEnv(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.MustInsert(t, store, "https://example.com/remove-me")

	stdout, _, err := runCLI(t, []string{"queue", "remove", fmt.Sprint(item.ID)}, socket, configPath)
	if err != nil {
		t.Fatalf("queue remove: %v", err)
	}
	requireContains(t, stdout, fmt.Sprintf("Removed item %d", item.ID))

	got, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("expected item %d to be gone, got %+v", item.ID, got)
	}
}

func TestQueueRemoveRefusesCompleted(t *testing.T) {
	cfg, configPath, socket := directStoreEnv(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.MustInsert(t, store, "https://example.com/keep")
	testsupport.MustSetStatus(t, store, item.ID, queue.StatusCompleted)

	_, _, err := runCLI(t, []string{"queue", "remove", fmt.Sprint(item.ID)}, socket, configPath)
	if err == nil {
		t.Fatal("expected removal of completed item to fail")
	}
	requireContains(t, err.Error(), "not removed")
}

func TestQueueRemoveRejectsBadID(t *testing.T) {
	_, configPath, socket := directStoreEnv(t)

	_, _, err := runCLI(t, []string{"queue", "remove", "abc"}, socket, configPath)
	if err == nil {
		t.Fatal("expected error for non-numeric id")
	}
	requireContains(t, err.Error(), "invalid queue item id")
}

func TestQueueRetry(t *testing.T) {
	cfg, configPath, socket := directStoreEnv(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.MustInsert(t, store, "https://example.com/flaky")
	if _, err := store.MarkFailed(context.Background(), item.ID, "network error"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"queue", "retry"}, socket, configPath)
	if err != nil {
		t.Fatalf("queue retry: %v", err)
	}
	requireContains(t, stdout, "Marked 1 items for retry")

	got, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != queue.StatusFailed {
		t.Fatalf("expected item to stay failed after retry, got %s", got.Status)
	}
	if got.ErrorMessage != "" {
		t.Fatalf("expected error message cleared, got %q", got.ErrorMessage)
	}
}

func TestQueueClearVariants(t *testing.T) {
	cfg, configPath, socket := directStoreEnv(t)
	store := testsupport.MustOpenStore(t, cfg)

	done := testsupport.MustInsert(t, store, "https://example.com/a")
	testsupport.MustSetStatus(t, store, done.ID, queue.StatusCompleted)
	failed := testsupport.MustInsert(t, store, "https://example.com/b")
	if _, err := store.MarkFailed(context.Background(), failed.ID, "boom"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	testsupport.MustInsert(t, store, "https://example.com/c")

	stdout, _, err := runCLI(t, []string{"queue", "clear", "--completed"}, socket, configPath)
	if err != nil {
		t.Fatalf("queue clear --completed: %v", err)
	}
	requireContains(t, stdout, "Cleared 1 completed items")

	stdout, _, err = runCLI(t, []string{"queue", "clear", "--failed"}, socket, configPath)
	if err != nil {
		t.Fatalf("queue clear --failed: %v", err)
	}
	requireContains(t, stdout, "Cleared 1 failed items")

	stdout, _, err = runCLI(t, []string{"queue", "clear"}, socket, configPath)
	if err != nil {
		t.Fatalf("queue clear: %v", err)
	}
	requireContains(t, stdout, "Cleared 1 items")

	_, _, err = runCLI(t, []string{"queue", "clear", "--completed", "--failed"}, socket, configPath)
	if err == nil {
		t.Fatal("expected error when both clear flags are set")
	}
}

func TestQueueHealth(t *testing.T) {
	cfg, configPath, socket := directStoreEnv(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.MustInsert(t, store, "https://example.com/one")
	done := testsupport.MustInsert(t, store, "https://example.com/two")
	testsupport.MustSetStatus(t, store, done.ID, queue.StatusCompleted)

	stdout, _, err := runCLI(t, []string{"queue", "health"}, socket, configPath)
	if err != nil {
		t.Fatalf("queue health: %v", err)
	}
	requireContains(t, stdout, string(queue.StatusPending))
	requireContains(t, stdout, string(queue.StatusCompleted))
}

func TestQueueHealthEmpty(t *testing.T) {
	_, configPath, socket := directStoreEnv(t)

	stdout, _, err := runCLI(t, []string{"queue", "health"}, socket, configPath)
	if err != nil {
		t.Fatalf("queue health: %v", err)
	}
	requireContains(t, stdout, "Queue is empty")
}
