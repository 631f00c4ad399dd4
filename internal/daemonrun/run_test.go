package daemonrun_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"vigil/internal/daemon"
	"vigil/internal/daemonrun"
	"vigil/internal/intake"
	"vigil/internal/ipc"
	"vigil/internal/sweep"
	"vigil/internal/testsupport"
)

// A second invocation against the same data dir must fail the instance
// lock without touching the live daemon's socket or pid file.
func TestRunRefusesSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	gateway := intake.NewGateway(store, nil)
	executor := sweep.NewExecutor(store, &testsupport.StubFetcher{}, cfg.Paths.DownloadDir, 0, nil)
	scheduler := sweep.NewScheduler(executor, cfg.Sweep.Hour, nil)

	d, err := daemon.New(cfg, store, gateway, scheduler, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(d.Stop)

	server, err := ipc.NewServer(ctx, cfg.SocketPath(), d, nil)
	if err != nil {
		t.Fatalf("ipc.NewServer: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	pidPath := filepath.Join(cfg.Paths.DataDir, "vigild.pid")
	if err := os.WriteFile(pidPath, []byte("12345\n"), 0o644); err != nil {
		t.Fatalf("write pid file: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{}); err == nil {
		t.Fatal("expected second daemon instance to fail the lock")
	}

	data, err := os.ReadFile(pidPath)
	if err != nil {
		t.Fatalf("read pid file: %v", err)
	}
	if string(data) != "12345\n" {
		t.Fatalf("expected pid file untouched, got %q", string(data))
	}

	if _, err := os.Stat(cfg.SocketPath()); err != nil {
		t.Fatalf("expected live daemon socket to survive, got %v", err)
	}
}
