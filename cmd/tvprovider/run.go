package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/tvprovider/pkg/cli"
	"mercator-hq/tvprovider/pkg/config"
	"mercator-hq/tvprovider/pkg/maintenance"
	"mercator-hq/tvprovider/pkg/telemetry/health"
	"mercator-hq/tvprovider/pkg/telemetry/logging"
	"mercator-hq/tvprovider/pkg/tv/transient"
)

const shutdownTimeout = 5 * time.Second

var runFlags struct {
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the provider until interrupted",
	Long: `Open the store, run the purge check and keep the provider alive.

While running, the maintenance jobs checkpoint the write-ahead log and
sample the boot epoch, metrics are served when enabled, and the
configuration file is watched so the log level can change without a
restart (SIGHUP forces a reload).

Examples:
  # Start with defaults
  tvprovider run

  # Start with a config file
  tvprovider run --config /etc/tvprovider/config.yaml

  # Validate the configuration and exit
  tvprovider run --dry-run`,
	RunE: runProvider,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting")
}

func runProvider(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	if runFlags.logLevel != "" {
		if err := logger.SetLevel(runFlags.logLevel); err != nil {
			return cli.NewConfigError("log-level", err.Error())
		}
	}

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
	ctx = logging.WithCommand(ctx, "run")

	a, err := newApp(ctx, cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer a.Close()

	if err := serve(ctx, a, out); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

// serve runs the purge check and the background services, and blocks until
// ctx is cancelled or the metrics server fails.
func serve(ctx context.Context, a *app, out io.Writer) error {
	// A failed purge check is reported through readiness; the rows it would
	// have deleted stay readable until the next process start.
	if err := a.guard.EnsurePurged(ctx); err != nil {
		slog.Error("purge check failed", "error", err)
		fmt.Fprintf(out, "✗ Purge check failed: %v\n", err)
	} else {
		status := a.guard.Status()
		fmt.Fprintf(out, "✓ Purge check %s (programs=%d channels=%d)\n",
			status.Outcome, status.ProgramsDeleted, status.ChannelsDeleted)
	}

	scheduler := maintenance.NewScheduler(maintenance.Config{
		CheckpointSchedule: a.cfg.Maintenance.CheckpointSchedule,
		DriftSchedule:      a.cfg.Maintenance.DriftSchedule,
		DriftTolerance:     a.cfg.Maintenance.DriftTolerance,
	}, a.store, maintenance.WithRecorder(a.collector))
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start maintenance: %w", err)
	}
	defer scheduler.Stop()
	if next := scheduler.NextRun(maintenance.JobCheckpoint); next != nil {
		slog.Debug("maintenance scheduler started", "next_checkpoint", next)
	}

	errChan := make(chan error, 1)
	var srv *http.Server
	if a.cfg.Telemetry.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(a.cfg.Telemetry.Metrics.Path, a.collector.Handler())
		health.Register(mux, newHealthChecker(a))
		srv = &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		ln, err := net.Listen("tcp", a.cfg.Telemetry.Metrics.ListenAddress)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", a.cfg.Telemetry.Metrics.ListenAddress, err)
		}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
		fmt.Fprintf(out, "✓ Metrics endpoint: http://%s%s\n", ln.Addr(), a.cfg.Telemetry.Metrics.Path)
		fmt.Fprintf(out, "✓ Readiness endpoint: http://%s%s\n", ln.Addr(), health.ReadinessPath)
	}

	stopReload := watchConfig(ctx)
	defer stopReload()

	fmt.Fprintln(out, "Press Ctrl+C to stop")

	var runErr error
	select {
	case <-ctx.Done():
		fmt.Fprintln(out, "\nShutting down...")
	case runErr = <-errChan:
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", "error", err)
			runErr = errors.Join(runErr, err)
		}
	}
	return runErr
}

func newHealthChecker(a *app) *health.Checker {
	checker := health.New(2 * time.Second)
	checker.RegisterCheck("store", a.store.DB().PingContext)
	checker.RegisterCheck("retention", func(ctx context.Context) error {
		status := a.guard.Status()
		if status.Outcome == transient.OutcomeFailed {
			return fmt.Errorf("purge check failed: %w", status.Err)
		}
		return nil
	})
	return checker
}

// watchConfig reloads the configuration when the file changes or SIGHUP
// arrives. Only the log level takes effect without a restart.
func watchConfig(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)
	hup, stopHUP := cli.ReloadSignal()

	var watcher *config.Watcher
	if path := config.Path(); path != "" {
		w, err := config.NewWatcher(path, 0)
		if err != nil {
			slog.Warn("config watcher unavailable", "error", err)
		} else {
			watcher = w
			go func() {
				if err := w.Watch(ctx, reloadConfig); err != nil {
					slog.Warn("config watcher stopped", "error", err)
				}
			}()
		}
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := reloadConfig(); err != nil {
					slog.Error("config reload failed", "error", err)
				}
			}
		}
	}()

	return func() {
		cancel()
		stopHUP()
		if watcher != nil {
			if err := watcher.Stop(); err != nil {
				slog.Debug("config watcher stop", "error", err)
			}
		}
	}
}

func reloadConfig() error {
	cfg, err := config.ReloadConfig()
	if err != nil {
		return err
	}
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	if err := logger.SetLevel(level); err != nil {
		return err
	}
	slog.Info("configuration reloaded", "path", config.Path(), "level", level)
	return nil
}
