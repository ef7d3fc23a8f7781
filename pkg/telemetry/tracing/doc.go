// Package tracing exports OpenTelemetry spans for configuration resolution.
//
// The resolver opens one span per resolution and one child span per stage
// (Input, Output, mode, window and so on). With tracing disabled a noop
// tracer is used and spans cost almost nothing. When enabled, spans are
// written as JSON by the stdout exporter:
//
//	tracer, err := tracing.New(tracing.Config{Enabled: settings.Trace})
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	resolver := config.NewResolver(config.ResolverConfig{Tracer: tracer.Tracer()})
package tracing
