package daemonctl_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vigil/internal/daemon"
	"vigil/internal/daemonctl"
	"vigil/internal/intake"
	"vigil/internal/ipc"
	"vigil/internal/sweep"
	"vigil/internal/testsupport"
)

func startTestDaemon(t *testing.T) (socketPath string, d *daemon.Daemon) {
	t.Helper()

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

	server, err := ipc.NewServer(ctx, cfg.SocketPath(), d, nil)
	if err != nil {
		t.Fatalf("ipc.NewServer: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(d.Stop)

	return cfg.SocketPath(), d
}

func TestProcessInfo(t *testing.T) {
	socketPath, _ := startTestDaemon(t)

	running, pid, err := daemonctl.ProcessInfo(socketPath)
	if err != nil {
		t.Fatalf("ProcessInfo: %v", err)
	}
	if !running {
		t.Fatal("expected daemon to report running")
	}
	if pid <= 0 {
		t.Fatalf("expected a positive pid, got %d", pid)
	}
}

func TestProcessInfoMissingSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "missing.sock")

	running, pid, err := daemonctl.ProcessInfo(socketPath)
	if err != nil {
		t.Fatalf("ProcessInfo: %v", err)
	}
	if running || pid != 0 {
		t.Fatalf("expected not running, got running=%v pid=%d", running, pid)
	}
}

func TestStopDaemon(t *testing.T) {
	socketPath, d := startTestDaemon(t)

	result, err := daemonctl.StopDaemon(socketPath, 5*time.Second)
	if err != nil {
		t.Fatalf("StopDaemon: %v", err)
	}
	if !result.StopAcknowledged {
		t.Fatal("expected stop to be acknowledged")
	}

	select {
	case <-d.Stopped():
	case <-time.After(time.Second):
		t.Fatal("expected Stopped channel to close")
	}
}

func TestStopDaemonNotRunning(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "missing.sock")

	_, err := daemonctl.StopDaemon(socketPath, time.Second)
	if err != daemonctl.ErrDaemonNotRunning {
		t.Fatalf("expected ErrDaemonNotRunning, got %v", err)
	}
}
