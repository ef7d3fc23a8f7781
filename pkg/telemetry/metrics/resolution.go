package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ResolutionMetrics tracks configuration resolution attempts.
//
// Metrics:
//   - forcing_config_resolutions_total: attempts by mode and outcome
//   - forcing_config_resolution_failures_total: failures by error kind
//   - forcing_config_resolution_duration_seconds: resolution duration histogram
//   - forcing_config_resolution_triggers_total: attempts by trigger
type ResolutionMetrics struct {
	resolutionsTotal *prometheus.CounterVec
	failuresTotal    *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	triggersTotal    *prometheus.CounterVec
}

// NewResolutionMetrics creates and registers resolution metrics.
func NewResolutionMetrics(cfg Config, registry *prometheus.Registry) *ResolutionMetrics {
	rm := &ResolutionMetrics{
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "resolutions_total",
				Help:      "Total number of configuration resolutions",
			},
			[]string{"mode", "outcome"},
		),

		failuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "resolution_failures_total",
				Help:      "Total number of failed resolutions by error kind",
			},
			[]string{"kind"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "resolution_duration_seconds",
				Help:      "Duration of configuration resolutions in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"outcome"},
		),

		triggersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "resolution_triggers_total",
				Help:      "Total number of resolutions by what started them",
			},
			[]string{"trigger"},
		),
	}

	registry.MustRegister(
		rm.resolutionsTotal,
		rm.failuresTotal,
		rm.duration,
		rm.triggersTotal,
	)

	return rm
}

// RecordSuccess records a successful resolution.
func (rm *ResolutionMetrics) RecordSuccess(mode string, duration time.Duration) {
	rm.resolutionsTotal.WithLabelValues(mode, "success").Inc()
	rm.duration.WithLabelValues("success").Observe(duration.Seconds())
}

// RecordFailure records a failed resolution. The mode is unknown when
// resolution fails before or during mode selection, so it is not labeled.
func (rm *ResolutionMetrics) RecordFailure(kind string, duration time.Duration) {
	rm.resolutionsTotal.WithLabelValues("", "failure").Inc()
	rm.failuresTotal.WithLabelValues(kind).Inc()
	rm.duration.WithLabelValues("failure").Observe(duration.Seconds())
}

// RecordTrigger records what started a resolution.
func (rm *ResolutionMetrics) RecordTrigger(trigger string) {
	rm.triggersTotal.WithLabelValues(trigger).Inc()
}
