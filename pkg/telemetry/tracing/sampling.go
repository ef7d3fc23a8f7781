package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampling strategies.
const (
	// SamplerAlways records every resolution.
	SamplerAlways = "always"

	// SamplerNever records nothing while keeping span creation cheap.
	SamplerNever = "never"

	// SamplerRatio records a fraction of resolutions, chosen by trace ID.
	SamplerRatio = "ratio"
)

// createSampler builds a parent-based sampler for strategy. An empty strategy
// means SamplerAlways. A resolution is a single trace, so the parent decision
// only matters for the stage spans beneath it.
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	var base sdktrace.Sampler

	switch strategy {
	case "", SamplerAlways:
		base = sdktrace.AlwaysSample()
	case SamplerNever:
		base = sdktrace.NeverSample()
	case SamplerRatio:
		if ratio < 0.0 || ratio > 1.0 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
		}
		base = sdktrace.TraceIDRatioBased(ratio)
	default:
		return nil, fmt.Errorf("unknown sampler strategy: %s (valid: always, never, ratio)", strategy)
	}

	return sdktrace.ParentBased(base), nil
}
