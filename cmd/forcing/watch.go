package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"hydroforce/forcing/pkg/cli"
	"hydroforce/forcing/pkg/config"
	"hydroforce/forcing/pkg/ledger"
	"hydroforce/forcing/pkg/ledger/retention"
	"hydroforce/forcing/pkg/schedule"
	"hydroforce/forcing/pkg/server"
	"hydroforce/forcing/pkg/telemetry/health"
	"hydroforce/forcing/pkg/telemetry/logging"
	"hydroforce/forcing/pkg/telemetry/metrics"
	"hydroforce/forcing/pkg/watch"
)

var watchFlags struct {
	metricsAddress string
	cycleDelay     time.Duration
	debounce       time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-resolve the configuration on change and at every forecast cycle",
	Long: `Keep the run configuration resolved while it is being edited and while
time passes.

The configuration is resolved at startup, whenever the file changes, on
SIGHUP and, in realtime mode, at every forecast cycle boundary so that the
lookback window follows the clock. A failed resolution keeps the previous
configuration in place. Every resolution is recorded in the ledger, and
ledger records older than the retention period are pruned on schedule.

The following endpoints are served on the metrics address:
  /metrics        Prometheus metrics
  /health/live    liveness
  /health/ready   readiness (configuration resolved, directories and geogrid present, ledger reachable)
  /version        build information

Examples:
  # Watch with the default metrics address
  forcing watch --config forcing.config

  # Re-resolve two minutes after each cycle boundary
  forcing watch --config realtime.config --cycle-delay 2m --metrics-address :9464`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.metricsAddress, "metrics-address", "", "override metrics and health listen address")
	watchCmd.Flags().DurationVar(&watchFlags.cycleDelay, "cycle-delay", 0, "delay after each forecast cycle boundary")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 250*time.Millisecond, "quiet period after file events")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	store, recorder, err := a.openLedger()
	if err != nil {
		return cli.NewCommandError("watch", fmt.Errorf("failed to open ledger: %w", err))
	}
	defer store.Close()

	collector := metrics.NewCollector(metrics.Config{}, nil)

	pruner := retention.NewPruner(store, &retention.Config{
		RetentionDays: a.settings.LedgerRetentionDays,
		PruneSchedule: a.settings.LedgerPruneSchedule,
	}, retention.WithObserver(collector.RecordLedgerPrune), retention.WithLogger(a.logger.Slog()))
	pruning := retention.NewScheduler(pruner)
	if err := pruning.Start(ctx); err != nil {
		a.logger.Warn("failed to start ledger pruning", "error", err)
	} else {
		defer pruning.Stop()
	}

	checker := health.New(0)
	checker.RegisterCheck("config", health.ConfigCheck(config.GetConfig))
	checker.RegisterCheck("directories", health.DirectoriesCheck(config.GetConfig))
	checker.RegisterCheck("geogrid", health.GeogridCheck(config.GetConfig))
	checker.RegisterCheck("ledger", health.PingCheck(store.Ping))

	loop := &watchLoop{
		app:       a,
		recorder:  recorder,
		collector: collector,
		cycles:    schedule.New(a.logger.Slog()),
		reporter:  cli.NewReporter(cmd.ErrOrStderr()).WithLogger(a.logger.Slog()),
		delay:     watchFlags.cycleDelay,
	}
	defer loop.cycles.Stop()

	srv := server.New(server.DefaultConfig(watchAddress(a.settings)), telemetryHandler(collector, checker), a.logger.Slog())
	if err := srv.Listen(); err != nil {
		return cli.NewCommandError("watch", err)
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start(ctx)
	}()

	watcher, err := watch.New(watch.Config{Path: cfgFile, DebounceInterval: watchFlags.debounce}, a.logger.Slog())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer watcher.Stop()

	loop.resolve(ctx, triggerStartup)

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- watcher.Watch(ctx, func(string) error {
			loop.resolve(ctx, triggerFile)
			return nil
		})
	}()

	reload, stopReload := cli.ReloadSignals()
	defer stopReload()

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Watching %s\n", cfgFile)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Metrics endpoint: http://%s/metrics\n", srv.Addr())
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Health endpoint: http://%s/health/ready\n", srv.Addr())

	var runErr error
wait:
	for {
		select {
		case <-ctx.Done():
			break wait
		case <-reload:
			a.logger.Info("reload requested by signal")
			loop.resolve(ctx, triggerSignal)
		case err := <-watchErr:
			if err != nil {
				runErr = cli.NewCommandError("watch", err)
			}
			break wait
		case err := <-serveErr:
			if err != nil {
				runErr = cli.NewCommandError("watch", err)
			}
			break wait
		}
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		a.logger.Error("metrics server shutdown failed", "error", err)
	}
	a.logger.Info("watch stopped")
	return runErr
}

func watchAddress(settings *config.Settings) string {
	switch {
	case watchFlags.metricsAddress != "":
		return watchFlags.metricsAddress
	case settings.MetricsAddress != "":
		return settings.MetricsAddress
	default:
		return config.DefaultMetricsAddress
	}
}

// telemetryHandler routes the metrics, health and version endpoints.
func telemetryHandler(collector *metrics.Collector, checker *health.Checker) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	health.Register(mux, checker, Version, GitCommit, BuildDate)
	return mux
}

// watchLoop resolves the configuration for every trigger and keeps the
// forecast cycle schedule in step with the latest configuration.
type watchLoop struct {
	app       *app
	recorder  *ledger.Recorder
	collector *metrics.Collector
	cycles    *schedule.Scheduler
	reporter  *cli.Reporter
	delay     time.Duration

	mu        sync.Mutex
	frequency int
}

// resolve runs one resolution. On success the result becomes the
// process-wide configuration; on failure the previous one stays.
func (l *watchLoop) resolve(ctx context.Context, trigger string) {
	runCtx := l.app.runContext(ctx, trigger)
	l.collector.RecordTrigger(trigger)

	cfg, elapsed, err := l.app.resolve(runCtx)
	l.collector.RecordResolution(cfg, err, elapsed)
	if _, recErr := l.recorder.Record(runCtx, ledger.Entry{
		Trigger:    trigger,
		ConfigPath: cfgFile,
		Config:     cfg,
		Err:        err,
		Duration:   elapsed,
	}); recErr != nil {
		l.app.logger.WarnContext(runCtx, "resolution not recorded", "error", recErr)
	}

	if err != nil {
		l.reporter.Report(err, cli.SeverityWarning)
		return
	}

	runCtx = logging.WithMode(runCtx, cfg.Mode().String())
	w := cfg.Window()
	l.app.logger.InfoContext(runCtx, "configuration resolved",
		"begin", w.Begin.String(),
		"end", w.End.String(),
		"num_output_steps", w.NumOutputSteps,
	)

	// Cycle jobs must not reschedule: Stop waits for the running job.
	if trigger != triggerCycle {
		l.reschedule(ctx, cfg)
	}
}

// reschedule starts, replaces or stops the forecast cycle schedule to match
// cfg.
func (l *watchLoop) reschedule(ctx context.Context, cfg *config.Config) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sched, err := schedule.NewCycleSchedule(cfg, l.delay)
	if err != nil {
		if l.frequency != 0 {
			l.cycles.Stop()
			l.frequency = 0
		}
		return
	}
	if sched.Frequency == l.frequency && l.cycles.Running() {
		return
	}

	l.cycles.Start(ctx, sched, func(ctx context.Context) {
		l.resolve(ctx, triggerCycle)
	})
	l.frequency = sched.Frequency
	l.app.logger.Info("forecast cycle schedule set", "frequency_minutes", sched.Frequency, "delay", l.delay.String())
}
