// Package metrics provides Prometheus metrics for the forcing tool.
//
// # Metrics
//
//   - forcing_config_resolutions_total{mode,outcome}
//   - forcing_config_resolution_failures_total{kind}
//   - forcing_config_resolution_duration_seconds{outcome}
//   - forcing_config_resolution_triggers_total{trigger}
//   - forcing_config_window_begin_timestamp_seconds, forcing_config_window_end_timestamp_seconds
//   - forcing_config_output_steps, forcing_config_forecast_cycles, forcing_config_cycle_length_minutes
//   - forcing_config_input_sources, forcing_config_run_mode{mode}
//   - forcing_config_last_success_timestamp_seconds
//   - forcing_ledger_pruned_records_total, forcing_ledger_prune_errors_total
//
// Window gauges always describe the last successful resolution; a failed
// reload only increments the failure counters.
//
// # Usage
//
//	collector := metrics.NewCollector(metrics.Config{}, nil)
//	start := time.Now()
//	cfg, err := resolver.Resolve(ctx, src)
//	collector.RecordResolution(cfg, err, time.Since(start))
//	mux.Handle("/metrics", collector.Handler())
package metrics
