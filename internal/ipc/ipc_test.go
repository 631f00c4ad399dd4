package ipc_test

import (
	"context"
	"testing"
	"time"

	"vigil/internal/config"
	"vigil/internal/daemon"
	"vigil/internal/intake"
	"vigil/internal/ipc"
	"vigil/internal/queue"
	"vigil/internal/sweep"
	"vigil/internal/testsupport"
)

func newTestClient(t *testing.T) (*ipc.Client, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d := newDaemon(t, cfg, store)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server, err := ipc.NewServer(ctx, cfg.SocketPath(), d, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	client, err := ipc.Dial(cfg.SocketPath())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})
	return client, store
}

func newDaemon(t *testing.T, cfg *config.Config, store *queue.Store) *daemon.Daemon {
	t.Helper()
	gateway := intake.NewGateway(store, nil)
	executor := sweep.NewExecutor(store, &testsupport.StubFetcher{}, cfg.Paths.DownloadDir, 0, nil)
	scheduler := sweep.NewScheduler(executor, cfg.Sweep.Hour, nil)
	d, err := daemon.New(cfg, store, gateway, scheduler, nil)
	if err != nil {
		t.Fatalf("daemon.New failed: %v", err)
	}
	return d
}

func TestSubmitOverIPC(t *testing.T) {
	client, store := newTestClient(t)

	resp, err := client.Submit("https://example.com/rpc")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !resp.Accepted {
		t.Fatalf("expected submission accepted, got %#v", resp)
	}

	item, err := store.GetByURL(context.Background(), "https://example.com/rpc")
	if err != nil {
		t.Fatalf("GetByURL: %v", err)
	}
	if item == nil {
		t.Fatal("expected submitted url queued")
	}

	rejected, err := client.Submit("not-a-url")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if rejected.Accepted || rejected.Reason != "invalid_scheme" {
		t.Fatalf("expected invalid_scheme rejection, got %#v", rejected)
	}
}

func TestQueueListOverIPC(t *testing.T) {
	client, store := newTestClient(t)

	a := testsupport.MustInsert(t, store, "https://example.com/a")
	b := testsupport.MustInsert(t, store, "https://example.com/b")
	testsupport.MustSetStatus(t, store, b.ID, queue.StatusCompleted)

	resp, err := client.QueueList(nil)
	if err != nil {
		t.Fatalf("QueueList failed: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}

	filtered, err := client.QueueList([]string{"pending"})
	if err != nil {
		t.Fatalf("QueueList filtered failed: %v", err)
	}
	if len(filtered.Items) != 1 || filtered.Items[0].ID != a.ID {
		t.Fatalf("unexpected filtered items: %#v", filtered.Items)
	}

	if _, err := client.QueueList([]string{"bogus"}); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestQueueRemoveOverIPC(t *testing.T) {
	client, store := newTestClient(t)

	pending := testsupport.MustInsert(t, store, "https://example.com/rm")
	done := testsupport.MustInsert(t, store, "https://example.com/keep")
	testsupport.MustSetStatus(t, store, done.ID, queue.StatusCompleted)

	resp, err := client.QueueRemove(pending.ID)
	if err != nil {
		t.Fatalf("QueueRemove failed: %v", err)
	}
	if !resp.Deleted {
		t.Fatal("expected pending item deleted")
	}

	resp, err = client.QueueRemove(done.ID)
	if err != nil {
		t.Fatalf("QueueRemove failed: %v", err)
	}
	if resp.Deleted {
		t.Fatal("expected completed item refused")
	}

	if _, err := client.QueueRemove(0); err == nil {
		t.Fatal("expected error for invalid id")
	}
}

func TestQueueRetryAndClearOverIPC(t *testing.T) {
	client, store := newTestClient(t)

	ctx := context.Background()
	failed := testsupport.MustInsert(t, store, "https://example.com/failed")
	if _, err := store.MarkFailed(ctx, failed.ID, "boom"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	done := testsupport.MustInsert(t, store, "https://example.com/done")
	testsupport.MustSetStatus(t, store, done.ID, queue.StatusCompleted)

	retried, err := client.QueueRetry(nil)
	if err != nil {
		t.Fatalf("QueueRetry failed: %v", err)
	}
	if retried.Updated != 1 {
		t.Fatalf("expected 1 item retried, got %d", retried.Updated)
	}
	item, err := store.GetByID(ctx, failed.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.Status != queue.StatusFailed || item.ErrorMessage != "" {
		t.Fatalf("expected failed item with cleared error, got %s %q", item.Status, item.ErrorMessage)
	}

	cleared, err := client.QueueClearCompleted()
	if err != nil {
		t.Fatalf("QueueClearCompleted failed: %v", err)
	}
	if cleared.Removed != 1 {
		t.Fatalf("expected 1 completed item removed, got %d", cleared.Removed)
	}

	all, err := client.QueueClear()
	if err != nil {
		t.Fatalf("QueueClear failed: %v", err)
	}
	if all.Removed != 1 {
		t.Fatalf("expected 1 remaining item removed, got %d", all.Removed)
	}
}

func TestSweepAndStatusOverIPC(t *testing.T) {
	client, store := newTestClient(t)
	testsupport.MustInsert(t, store, "https://example.com/swept")

	resp, err := client.Sweep()
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if !resp.Started {
		t.Fatal("expected sweep to start")
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status, err := client.Status()
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if !status.SweepActive && status.LastSweep != nil {
			if status.LastSweep.Completed != 1 {
				t.Fatalf("unexpected sweep summary: %#v", status.LastSweep)
			}
			if status.QueueStats["completed"] != 1 {
				t.Fatalf("unexpected queue stats: %#v", status.QueueStats)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("sweep never completed")
}

func TestQueueHealthOverIPC(t *testing.T) {
	client, store := newTestClient(t)

	testsupport.MustInsert(t, store, "https://example.com/h1")
	failed := testsupport.MustInsert(t, store, "https://example.com/h2")
	if _, err := store.MarkFailed(context.Background(), failed.ID, "boom"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	health, err := client.QueueHealth()
	if err != nil {
		t.Fatalf("QueueHealth failed: %v", err)
	}
	if health.Total != 2 || health.Pending != 1 || health.Failed != 1 {
		t.Fatalf("unexpected health: %#v", health)
	}
}
