// Package daemonrun assembles and runs the daemon process: logger,
// queue store, sweep services, IPC server, and signal handling.
package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"vigil/internal/config"
	"vigil/internal/daemon"
	"vigil/internal/fetch"
	"vigil/internal/intake"
	"vigil/internal/ipc"
	"vigil/internal/logging"
	"vigil/internal/preflight"
	"vigil/internal/queue"
	"vigil/internal/sweep"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the vigil daemon runtime loop and blocks until SIGINT or
// SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return err
	}
	defer store.Close()

	for _, check := range preflight.RunAll(signalCtx, cfg) {
		if check.Passed {
			continue
		}
		logger.Warn("preflight check failed",
			logging.String("check", check.Name),
			logging.String("detail", check.Detail))
	}

	gateway := intake.NewGateway(store, logger)
	fetcher := fetch.NewCLI(cfg.Fetch.Format, cfg.ArchivePath(), fetch.WithBinary(cfg.Fetch.Binary))
	executor := sweep.NewExecutor(store, fetcher, cfg.Paths.DownloadDir,
		time.Duration(cfg.Sweep.FetchTimeout)*time.Second, logger)
	scheduler := sweep.NewScheduler(executor, cfg.Sweep.Hour, logger)

	d, err := daemon.New(cfg, store, gateway, scheduler, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	// The instance lock comes first: a second invocation must not touch
	// the live daemon's socket or pid file.
	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start ipc server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	pidPath := filepath.Join(cfg.Paths.DataDir, "vigild.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	if cfg.Sweep.RunOnStart {
		d.TriggerSweep()
	}

	select {
	case <-signalCtx.Done():
	case <-d.Stopped():
	}
	logger.Info("vigil daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
