// Package telemetry groups the observability of the forcing tool.
//
// # Components
//
//   - logging: slog loggers carrying run ID, trigger and run mode
//   - metrics: Prometheus counters and gauges for resolutions and the ledger
//   - tracing: OpenTelemetry spans per resolution stage, exported to stderr
//   - health: liveness and readiness checks over the resolved configuration
//
// # Usage
//
//	logger, _ := logging.New(logging.Config{Level: "info", Format: "json"})
//	tracer, _ := tracing.New(tracing.Config{Enabled: true, ServiceName: "forcing"})
//	defer tracer.Shutdown(context.Background())
//
//	resolver := config.NewResolver(config.ResolverConfig{
//	    Logger: logger.Slog(),
//	    Tracer: tracer.Tracer(),
//	})
//
//	collector := metrics.NewCollector(metrics.Config{}, nil)
//	start := time.Now()
//	cfg, err := resolver.Resolve(ctx, src)
//	collector.RecordResolution(cfg, err, time.Since(start))
//
// The watch command serves collector.Handler() on /metrics and the health
// handlers on /health/live and /health/ready.
package telemetry
