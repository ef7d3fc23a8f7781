package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hydroforce/forcing/pkg/cli"
	"hydroforce/forcing/pkg/config"
	"hydroforce/forcing/pkg/ledger"
)

var validateFlags struct {
	noLedger bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a run configuration",
	Long: `Resolve the run configuration and print a summary of the run.

Every section is read and checked: input forcing arrays, output cadence,
the run-mode window, forecast horizons and offsets, the geogrid file,
regridding and temporal interpolation. The first failure stops resolution
and sets the exit code:

  10  missing key              13  array length mismatch
  11  parse error              14  cross-field inconsistency
  12  value out of range       15  file or directory not found
  20  invalid [Runtime] settings

Each resolution is recorded in the run ledger unless --no-ledger is set.

Examples:
  # Validate a legacy configuration
  forcing validate --config forcing.config

  # Machine-readable summary
  forcing validate --config run.yaml --format json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.noLedger, "no-ledger", false, "do not record the resolution in the ledger")
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(outFormat)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := a.runContext(cmd.Context(), triggerValidate)
	cfg, elapsed, resolveErr := a.resolve(ctx)

	if !validateFlags.noLedger {
		if err := recordResolution(ctx, a, ledger.Entry{
			Trigger:    triggerValidate,
			ConfigPath: cfgFile,
			Config:     cfg,
			Err:        resolveErr,
			Duration:   elapsed,
		}); err != nil {
			a.logger.WarnContext(ctx, "resolution not recorded", "error", err)
		}
	}

	if resolveErr != nil {
		return resolveErr
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), newSummary(cfgFile, cfg, elapsed))
}

func recordResolution(ctx context.Context, a *app, entry ledger.Entry) error {
	store, recorder, err := a.openLedger()
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = recorder.Record(ctx, entry)
	return err
}

// summary is the outcome of a successful validation.
type summary struct {
	Config            string `json:"config" yaml:"config"`
	Mode              string `json:"mode" yaml:"mode"`
	Begin             string `json:"begin" yaml:"begin"`
	End               string `json:"end" yaml:"end"`
	NumOutputSteps    int    `json:"num_output_steps" yaml:"num_output_steps"`
	NumForecasts      int    `json:"num_forecasts,omitempty" yaml:"num_forecasts,omitempty"`
	ForecastFrequency int    `json:"forecast_frequency_minutes,omitempty" yaml:"forecast_frequency_minutes,omitempty"`
	NumInputs         int    `json:"num_inputs" yaml:"num_inputs"`
	Elapsed           string `json:"elapsed" yaml:"elapsed"`
}

func newSummary(path string, cfg *config.Config, elapsed time.Duration) summary {
	w := cfg.Window()
	return summary{
		Config:            path,
		Mode:              cfg.Mode().String(),
		Begin:             w.Begin.String(),
		End:               w.End.String(),
		NumOutputSteps:    w.NumOutputSteps,
		NumForecasts:      w.NumForecasts,
		ForecastFrequency: cfg.ForecastFrequency(),
		NumInputs:         cfg.NumInputs(),
		Elapsed:           elapsed.Round(time.Microsecond).String(),
	}
}

// String renders the text summary.
func (s summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ Configuration valid: %s\n", s.Config)
	fmt.Fprintf(&b, "  Mode:             %s\n", s.Mode)
	fmt.Fprintf(&b, "  Window:           %s to %s\n", s.Begin, s.End)
	fmt.Fprintf(&b, "  Output steps:     %d\n", s.NumOutputSteps)
	if s.ForecastFrequency > 0 {
		fmt.Fprintf(&b, "  Forecast cadence: %d minutes\n", s.ForecastFrequency)
	}
	if s.NumForecasts > 0 {
		fmt.Fprintf(&b, "  Forecast cycles:  %d\n", s.NumForecasts)
	}
	fmt.Fprintf(&b, "  Input sources:    %d", s.NumInputs)
	return b.String()
}

// Header implements cli.Tabular.
func (s summary) Header() []string {
	return []string{"config", "mode", "begin", "end", "num_output_steps", "num_forecasts", "forecast_frequency_minutes", "num_inputs", "elapsed"}
}

// Rows implements cli.Tabular.
func (s summary) Rows() [][]string {
	return [][]string{{
		s.Config,
		s.Mode,
		s.Begin,
		s.End,
		strconv.Itoa(s.NumOutputSteps),
		strconv.Itoa(s.NumForecasts),
		strconv.Itoa(s.ForecastFrequency),
		strconv.Itoa(s.NumInputs),
		s.Elapsed,
	}}
}

