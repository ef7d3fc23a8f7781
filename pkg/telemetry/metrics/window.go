package metrics

import (
	"time"

	"hydroforce/forcing/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// WindowMetrics describes the processing window of the last successful
// resolution.
type WindowMetrics struct {
	begin          prometheus.Gauge
	end            prometheus.Gauge
	outputSteps    prometheus.Gauge
	forecasts      prometheus.Gauge
	cycleLength    prometheus.Gauge
	inputs         prometheus.Gauge
	mode           *prometheus.GaugeVec
	lastResolution prometheus.Gauge
}

// NewWindowMetrics creates and registers window gauges.
func NewWindowMetrics(cfg Config, registry *prometheus.Registry) *WindowMetrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		})
	}

	wm := &WindowMetrics{
		begin:          gauge("window_begin_timestamp_seconds", "Start of the processing window as a Unix timestamp, 0 when unset"),
		end:            gauge("window_end_timestamp_seconds", "End of the processing window as a Unix timestamp, 0 when unset"),
		outputSteps:    gauge("output_steps", "Number of output time steps in the window or forecast cycle"),
		forecasts:      gauge("forecast_cycles", "Number of reforecast cycles"),
		cycleLength:    gauge("cycle_length_minutes", "Longest forecast horizon in minutes"),
		inputs:         gauge("input_sources", "Number of configured input forcing sources"),
		lastResolution: gauge("last_success_timestamp_seconds", "Time of the last successful resolution as a Unix timestamp"),
		mode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "run_mode",
			Help:      "Resolved run mode, 1 for the active mode",
		}, []string{"mode"}),
	}

	registry.MustRegister(
		wm.begin,
		wm.end,
		wm.outputSteps,
		wm.forecasts,
		wm.cycleLength,
		wm.inputs,
		wm.mode,
		wm.lastResolution,
	)

	return wm
}

// Update sets every gauge from cfg.
func (wm *WindowMetrics) Update(cfg *config.Config) {
	w := cfg.Window()
	wm.begin.Set(timestamp(w.Begin))
	wm.end.Set(timestamp(w.End))
	wm.outputSteps.Set(float64(w.NumOutputSteps))
	wm.forecasts.Set(float64(w.NumForecasts))
	wm.cycleLength.Set(float64(w.CycleLengthMinutes))
	wm.inputs.Set(float64(cfg.NumInputs()))

	for _, m := range []config.RunMode{config.ModeRetrospective, config.ModeRealtime, config.ModeReforecast} {
		v := 0.0
		if m == cfg.Mode() {
			v = 1
		}
		wm.mode.WithLabelValues(m.String()).Set(v)
	}
	wm.lastResolution.Set(float64(time.Now().Unix()))
}

func timestamp(d config.Date) float64 {
	if !d.Valid {
		return 0
	}
	return float64(d.Time.Unix())
}
