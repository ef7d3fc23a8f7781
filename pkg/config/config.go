package config

import (
	"time"
)

// ForcingInput is the resolved configuration of one input forcing source.
type ForcingInput struct {
	Source             ForcingSource
	Type               SourceType
	Directory          string
	Mandatory          bool
	Horizon            int
	Offset             int
	IgnoredBorderWidth int
	Regrid             RegridMethod
	Interp             [numVariables]TemporalInterp
}

// InterpFor returns the temporal interpolation method for v.
func (f ForcingInput) InterpFor(v Variable) TemporalInterp {
	if v < 0 || v >= numVariables {
		return InterpNone
	}
	return f.Interp[v]
}

// ProcessingWindow is the resolved time window of a run. All durations are
// whole minutes.
type ProcessingWindow struct {
	Begin Date
	End   Date

	// OutputStepMinutes is the output cadence.
	OutputStepMinutes int

	// NumOutputSteps is the number of output steps in the window
	// (retrospective) or in one forecast cycle (forecast modes).
	NumOutputSteps int

	// CycleLengthMinutes is the longest forecast horizon. Zero in
	// retrospective mode.
	CycleLengthMinutes int

	// NumForecasts is the number of reforecast cycles. Zero outside
	// reforecast mode.
	NumForecasts int
}

// Open reports whether the window has no concrete bounds.
func (w ProcessingWindow) Open() bool {
	return !w.Begin.Valid && !w.End.Valid
}

// Minutes returns the window length, or 0 when either bound is unset. The
// length is computed from Unix seconds since time.Duration saturates at
// about 292 years.
func (w ProcessingWindow) Minutes() int {
	if !w.Begin.Valid || !w.End.Valid {
		return 0
	}
	return int((w.End.Time.Unix() - w.Begin.Time.Unix()) / 60)
}

// Config is a fully resolved run configuration. It is only ever produced by
// a successful Resolve and cannot be modified afterwards; accessors return
// copies, so any number of goroutines may read it concurrently.
type Config struct {
	source            string
	mode              RunMode
	inputs            []ForcingInput
	outputFrequency   int
	outputDir         string
	lookBack          int
	hasLookBack       bool
	forecastFrequency int
	forecastShift     int
	window            ProcessingWindow
	geogrid           string
	reference         time.Time
}

// Source names where the configuration was read from.
func (c *Config) Source() string { return c.source }

// Mode returns the run mode.
func (c *Config) Mode() RunMode { return c.mode }

// NumInputs returns the number of input forcing sources.
func (c *Config) NumInputs() int { return len(c.inputs) }

// Inputs returns a copy of the per-source configuration.
func (c *Config) Inputs() []ForcingInput {
	out := make([]ForcingInput, len(c.inputs))
	copy(out, c.inputs)
	return out
}

// Input returns the i-th input source.
func (c *Config) Input(i int) (ForcingInput, bool) {
	if i < 0 || i >= len(c.inputs) {
		return ForcingInput{}, false
	}
	return c.inputs[i], true
}

// OutputFrequency returns the output cadence in minutes.
func (c *Config) OutputFrequency() int { return c.outputFrequency }

// OutputDir returns the output directory.
func (c *Config) OutputDir() string { return c.outputDir }

// LookBack returns the realtime lookback in minutes. ok is false outside
// realtime mode.
func (c *Config) LookBack() (minutes int, ok bool) { return c.lookBack, c.hasLookBack }

// ForecastFrequency returns the forecast cycle cadence in minutes, or 0 in
// retrospective mode.
func (c *Config) ForecastFrequency() int { return c.forecastFrequency }

// ForecastShift returns the realtime forecast shift in minutes.
func (c *Config) ForecastShift() int { return c.forecastShift }

// Window returns the processing window.
func (c *Config) Window() ProcessingWindow { return c.window }

// Geogrid returns the path of the grid-definition file.
func (c *Config) Geogrid() string { return c.geogrid }

// ReferenceTime is the wall-clock time captured when resolution started.
func (c *Config) ReferenceTime() time.Time { return c.reference }

// Directories returns every directory the configuration depends on.
func (c *Config) Directories() []string {
	dirs := make([]string, 0, len(c.inputs)+1)
	for _, in := range c.inputs {
		dirs = append(dirs, in.Directory)
	}
	return append(dirs, c.outputDir)
}

// Description is a serializable view of a resolved configuration, with enum
// values spelled out by name.
type Description struct {
	Source  string             `json:"source" yaml:"source"`
	Mode    string             `json:"mode" yaml:"mode"`
	Inputs  []InputDescription `json:"inputs" yaml:"inputs"`
	Output  OutputDescription  `json:"output" yaml:"output"`
	Window  WindowDescription  `json:"window" yaml:"window"`
	Geogrid string             `json:"geogrid" yaml:"geogrid"`
}

// InputDescription describes one input source.
type InputDescription struct {
	Forcing             string            `json:"forcing" yaml:"Forcing"`
	Type                string            `json:"type,omitempty" yaml:"Type,omitempty"`
	Dir                 string            `json:"dir" yaml:"Dir"`
	Mandatory           bool              `json:"mandatory" yaml:"Mandatory"`
	Horizon             int               `json:"horizon,omitempty" yaml:"Horizon,omitempty"`
	Offset              int               `json:"offset" yaml:"Offset"`
	IgnoredBorderWidths int               `json:"ignored_border_widths" yaml:"IgnoredBorderWidths"`
	RegriddingOpt       string            `json:"regridding_opt" yaml:"RegriddingOpt"`
	TemporalInterp      map[string]string `json:"temporal_interp" yaml:"TemporalInterp"`
}

// OutputDescription describes the output cadence.
type OutputDescription struct {
	Frequency int    `json:"frequency_minutes" yaml:"frequency_minutes"`
	Dir       string `json:"dir" yaml:"dir"`
}

// WindowDescription describes the processing window.
type WindowDescription struct {
	Begin              string `json:"begin" yaml:"begin"`
	End                string `json:"end" yaml:"end"`
	NumOutputSteps     int    `json:"num_output_steps" yaml:"num_output_steps"`
	CycleLengthMinutes int    `json:"cycle_length_minutes,omitempty" yaml:"cycle_length_minutes,omitempty"`
	NumForecasts       int    `json:"num_forecasts,omitempty" yaml:"num_forecasts,omitempty"`
	ForecastFrequency  int    `json:"forecast_frequency_minutes,omitempty" yaml:"forecast_frequency_minutes,omitempty"`
}

// Describe returns the serializable view of c.
func (c *Config) Describe() Description {
	d := Description{
		Source:  c.source,
		Mode:    c.mode.String(),
		Inputs:  make([]InputDescription, 0, len(c.inputs)),
		Output:  OutputDescription{Frequency: c.outputFrequency, Dir: c.outputDir},
		Geogrid: c.geogrid,
		Window: WindowDescription{
			Begin:              c.window.Begin.String(),
			End:                c.window.End.String(),
			NumOutputSteps:     c.window.NumOutputSteps,
			CycleLengthMinutes: c.window.CycleLengthMinutes,
			NumForecasts:       c.window.NumForecasts,
			ForecastFrequency:  c.forecastFrequency,
		},
	}
	for _, in := range c.inputs {
		interp := make(map[string]string, numVariables)
		for _, v := range Variables {
			interp[v.String()] = in.Interp[v].String()
		}
		d.Inputs = append(d.Inputs, InputDescription{
			Forcing:             in.Source.String(),
			Type:                string(in.Type),
			Dir:                 in.Directory,
			Mandatory:           in.Mandatory,
			Horizon:             in.Horizon,
			Offset:              in.Offset,
			IgnoredBorderWidths: in.IgnoredBorderWidth,
			RegriddingOpt:       in.Regrid.String(),
			TemporalInterp:      interp,
		})
	}
	return d
}
