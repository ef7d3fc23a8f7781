package metrics

import (
	"net/http"
	"time"

	"hydroforce/forcing/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls metric naming.
type Config struct {
	// Namespace prefixes every metric name. Defaults to "forcing".
	Namespace string

	// Subsystem follows the namespace. Defaults to "config".
	Subsystem string

	// DurationBuckets are the resolution duration histogram buckets in
	// seconds.
	DurationBuckets []float64
}

// Collector owns every Prometheus metric exported by the forcing tool. It
// records the outcome of each configuration resolution and the window the
// latest successful one produced.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	resolutionMetrics *ResolutionMetrics
	windowMetrics     *WindowMetrics
	ledgerMetrics     *LedgerMetrics
}

// NewCollector creates a collector registered on registry. If registry is
// nil, a fresh registry is created.
//
// Example:
//
//	collector := metrics.NewCollector(metrics.Config{}, nil)
//	collector.RecordResolution(cfg, nil, time.Since(start))
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "forcing"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "config"
	}
	if len(cfg.DurationBuckets) == 0 {
		// Resolution reads one small file and stats a few paths.
		cfg.DurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0}
	}

	return &Collector{
		config:            cfg,
		registry:          registry,
		resolutionMetrics: NewResolutionMetrics(cfg, registry),
		windowMetrics:     NewWindowMetrics(cfg, registry),
		ledgerMetrics:     NewLedgerMetrics(cfg, registry),
	}
}

// RecordResolution records one resolution attempt. On success, cfg is the
// resolved configuration and err is nil; the window gauges are updated.
// On failure, the failure counter is incremented with the error kind and
// the gauges keep describing the last good configuration.
//
// Example:
//
//	cfg, err := resolver.Resolve(ctx, src)
//	collector.RecordResolution(cfg, err, time.Since(start))
func (c *Collector) RecordResolution(cfg *config.Config, err error, duration time.Duration) {
	if err != nil {
		c.resolutionMetrics.RecordFailure(config.KindOf(err).String(), duration)
		return
	}
	c.resolutionMetrics.RecordSuccess(cfg.Mode().String(), duration)
	c.windowMetrics.Update(cfg)
}

// RecordTrigger counts what started a resolution (startup, file, signal,
// cycle).
func (c *Collector) RecordTrigger(trigger string) {
	c.resolutionMetrics.RecordTrigger(trigger)
}

// RecordLedgerPrune records the number of ledger records removed by one
// pruning pass.
func (c *Collector) RecordLedgerPrune(deleted int64, err error) {
	c.ledgerMetrics.RecordPrune(deleted, err)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry for scraping. A failing collector
// is reported in the response instead of failing the scrape.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
