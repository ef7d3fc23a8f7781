package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hydroforce/forcing/pkg/cli"
	"hydroforce/forcing/pkg/config"
	"hydroforce/forcing/pkg/ledger"
	"hydroforce/forcing/pkg/ledger/storage"
	"hydroforce/forcing/pkg/telemetry/logging"
	"hydroforce/forcing/pkg/telemetry/tracing"
)

// Resolution triggers recorded in the ledger and in metrics.
const (
	triggerValidate = "validate"
	triggerWindow   = "window"
	triggerStartup  = "startup"
	triggerFile     = "file"
	triggerSignal   = "signal"
	triggerCycle    = "cycle"
)

// app holds what every command builds from the runtime settings.
type app struct {
	settings *config.Settings
	logger   *logging.Logger
	tracer   *tracing.Tracer
	resolver *config.Resolver
}

func newApp(cmd *cobra.Command) (*app, error) {
	settings, err := loadSettings(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		settings.LogLevel = logLevel
	}
	if logFormat != "" {
		settings.LogFormat = logFormat
	}

	logger, err := logging.New(logging.Config{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, cli.NewConfigError("log-level", err.Error())
	}
	slog.SetDefault(logger.Slog())

	tracer, err := tracing.New(tracing.Config{
		Enabled:        settings.Trace,
		ServiceName:    "forcing",
		ServiceVersion: Version,
		Writer:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, cli.NewCommandError(cmd.Name(), err)
	}

	a := &app{
		settings: settings,
		logger:   logger,
		tracer:   tracer,
	}
	a.setClock(nil)
	return a, nil
}

// setClock rebuilds the resolver with now as its wall clock. nil restores
// time.Now.
func (a *app) setClock(now func() time.Time) {
	a.resolver = config.NewResolver(config.ResolverConfig{
		Now:    now,
		Logger: a.logger.Slog(),
		Tracer: a.tracer.Tracer(),
	})
}

// close flushes pending spans.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to flush traces", "error", err)
	}
}

// runContext tags ctx with a fresh run ID and the trigger for log records.
func (a *app) runContext(ctx context.Context, trigger string) context.Context {
	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx = logging.WithConfigPath(ctx, cfgFile)
	return logging.WithTrigger(ctx, trigger)
}

// resolve reads and resolves the configuration file. A successful result
// becomes the process-wide configuration.
func (a *app) resolve(ctx context.Context) (*config.Config, time.Duration, error) {
	start := time.Now()
	cfg, err := config.ReloadConfig(ctx, a.resolver, cfgFile)
	return cfg, time.Since(start), err
}

// openLedger opens the configured ledger backend.
func (a *app) openLedger() (ledger.Storage, *ledger.Recorder, error) {
	store, err := storage.Open(a.settings)
	if err != nil {
		return nil, nil, err
	}
	recorder := ledger.NewRecorder(store, &ledger.RecorderConfig{Logger: a.logger.Slog()})
	return store, recorder, nil
}

// loadSettings reads the runtime settings of the configuration at path. When
// the file itself cannot be read the defaults are used, so that resolution
// reports the problem with its own exit code.
func loadSettings(path string) (*config.Settings, error) {
	settings, err := config.LoadSettings(path)
	if err == nil {
		return settings, nil
	}
	if config.KindOf(err) != 0 {
		return config.DefaultSettings(), nil
	}
	return nil, err
}
