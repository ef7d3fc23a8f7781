package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics tracks run ledger maintenance.
type LedgerMetrics struct {
	prunedTotal prometheus.Counter
	errorsTotal prometheus.Counter
}

// NewLedgerMetrics creates and registers ledger metrics.
func NewLedgerMetrics(cfg Config, registry *prometheus.Registry) *LedgerMetrics {
	lm := &LedgerMetrics{
		prunedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "ledger",
			Name:      "pruned_records_total",
			Help:      "Total number of ledger records removed by retention",
		}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "ledger",
			Name:      "prune_errors_total",
			Help:      "Total number of failed retention passes",
		}),
	}
	registry.MustRegister(lm.prunedTotal, lm.errorsTotal)
	return lm
}

// RecordPrune records one pruning pass.
func (lm *LedgerMetrics) RecordPrune(deleted int64, err error) {
	if err != nil {
		lm.errorsTotal.Inc()
		return
	}
	lm.prunedTotal.Add(float64(deleted))
}
