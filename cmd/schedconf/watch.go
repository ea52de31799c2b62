package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pytroll-hq/schedconf/pkg/cli"
	"pytroll-hq/schedconf/pkg/config"
	"pytroll-hq/schedconf/pkg/history"
	"pytroll-hq/schedconf/pkg/schedule"
	"pytroll-hq/schedconf/pkg/telemetry/health"
	"pytroll-hq/schedconf/pkg/telemetry/logging"
	"pytroll-hq/schedconf/pkg/telemetry/metrics"
	"pytroll-hq/schedconf/pkg/watch"
)

var watchFlags struct {
	debounce    time.Duration
	schedule    string
	metricsAddr string
	historyDB   string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the configuration loaded and reload it on change",
	Long: `Load the configuration and reload it whenever one of the files changes,
and optionally on a cron schedule. A reload that fails keeps the previous
configuration. Every reload attempt is recorded in the reload history, kept
in memory or in the SQLite database given by --history-db. When a metrics
address is given, load and reload counters are exported at /metrics,
liveness and readiness at /health and /ready, and the recent reload history
at /history.

Examples:
  # Reload on file change
  schedconf watch -c schedule.yaml

  # Also reload every 10 minutes and expose metrics
  schedconf watch -c schedule.yaml --schedule "@every 10m" --metrics-addr :9090

  # Keep the reload history across restarts
  schedconf watch -c schedule.yaml --history-db /var/lib/schedconf/reloads.db`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", watch.DefaultDebounceInterval, "quiet period before reloading after a change")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", "cron schedule of periodic reloads (e.g. \"@every 10m\")")
	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "listen address of the metrics endpoint")
	watchCmd.Flags().StringVar(&watchFlags.historyDB, "history-db", "", "SQLite database of the reload history")
}

type watchOptions struct {
	debounce    time.Duration
	schedule    string
	metricsAddr string
	historyDB   string
	retention   history.RetentionConfig
}

func runWatch(cmd *cobra.Command, args []string) error {
	paths, err := configPaths()
	if err != nil {
		return err
	}

	opts := watchOptions{
		debounce:    watchFlags.debounce,
		schedule:    settings.ReloadSchedule,
		metricsAddr: settings.MetricsAddr,
		historyDB:   settings.HistoryDB,
		retention: history.RetentionConfig{
			MaxAge:     settings.HistoryMaxAge,
			MaxRecords: settings.HistoryMaxRecords,
			Schedule:   settings.HistoryPruneSchedule,
		},
	}
	if cmd.Flags().Changed("schedule") {
		opts.schedule = watchFlags.schedule
	}
	if cmd.Flags().Changed("metrics-addr") {
		opts.metricsAddr = watchFlags.metricsAddr
	}
	if cmd.Flags().Changed("history-db") {
		opts.historyDB = watchFlags.historyDB
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	return watchConfig(ctx, logging.FromContext(ctx), paths, opts)
}

// watchConfig loads paths and keeps reloading them until ctx is done.
func watchConfig(ctx context.Context, logger *slog.Logger, paths []string, opts watchOptions) error {
	collector := metrics.NewCollector(metrics.Config{Enabled: true}, nil)
	loader := config.NewLoader(config.WithLogger(logger), config.WithRecorder(collector))
	factory := schedule.NewDefaultFactory(nil, logger)

	store, err := openHistory(opts.historyDB, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer store.Close()

	pruner := history.NewPruner(store, opts.retention, logger)
	if err := pruner.Start(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer pruner.Stop()

	reloader := watch.NewReloader(paths, assembledLoad(loader.Read, factory), collector, logger)
	reloader.OnReload(recordReload(store, logger))

	if err := reloader.Reload(watch.TriggerStartup); err != nil {
		return cli.NewCommandError("watch", err)
	}

	fw, err := watch.NewFileWatcher(&watch.FileWatcherConfig{
		Paths:            paths,
		DebounceInterval: opts.debounce,
	}, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer func() { _ = fw.Stop() }()

	sched := watch.NewScheduler(opts.schedule, reloader, logger)
	if err := sched.Start(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer sched.Stop()

	if opts.metricsAddr != "" {
		srv := startStatusServer(opts.metricsAddr, collector, readinessChecker(reloader, paths), store, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("status server shutdown failed", "error", err)
			}
		}()
	}

	return fw.Watch(ctx, func() error {
		return reloader.Reload(watch.TriggerFile)
	})
}

// assembledLoad wraps load so that a hierarchical result which does not
// assemble into a scheduler fails the load. Flat results pass through.
func assembledLoad(load watch.LoadFunc, factory schedule.Factory) watch.LoadFunc {
	return func(paths ...string) (config.Result, error) {
		res, err := load(paths...)
		if err != nil {
			return nil, err
		}
		if hr, ok := res.(*config.HierarchicalResult); ok {
			if _, err := schedule.Build(hr.Config, factory); err != nil {
				return nil, fmt.Errorf("configuration does not assemble: %w", err)
			}
		}
		return res, nil
	}
}

// readinessChecker reports ready while the latest reload succeeded and
// every configuration file is still readable.
func readinessChecker(reloader *watch.Reloader, paths []string) *health.Checker {
	checker := health.New(0)
	checker.RegisterCheck("configuration", func(ctx context.Context) error {
		if reloader.Current() == nil {
			return errors.New("no configuration loaded")
		}
		if err := reloader.LastError(); err != nil {
			return fmt.Errorf("last reload failed: %w", err)
		}
		return nil
	})
	checker.RegisterCheck("files", func(ctx context.Context) error {
		for _, path := range paths {
			if _, err := os.Stat(path); err != nil {
				return err
			}
		}
		return nil
	})
	return checker
}

func startStatusServer(addr string, collector *metrics.Collector, checker *health.Checker, store history.Store, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.Handle("/history", historyHandler(store))
	checker.Register(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("status server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server failed", "error", err)
		}
	}()
	return srv
}
