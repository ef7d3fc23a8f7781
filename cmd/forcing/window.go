package main

import (
	"time"

	"github.com/spf13/cobra"

	"hydroforce/forcing/pkg/cli"
)

var windowFlags struct {
	at string
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Print the resolved configuration",
	Long: `Resolve the run configuration and print it in full: every input source
with its enum values spelled out, the output cadence and the processing
window. Text output uses the YAML layout.

A realtime window depends on the wall clock; --at resolves it as of
another instant.

Examples:
  # Resolved configuration as YAML
  forcing window --config forcing.config

  # Realtime window as of a past cycle
  forcing window --config realtime.config --at 2020-01-01T13:47:00Z --format json`,
	RunE: runWindow,
}

func init() {
	rootCmd.AddCommand(windowCmd)

	windowCmd.Flags().StringVar(&windowFlags.at, "at", "", "reference time for realtime windows (RFC3339, default: now)")
}

func runWindow(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(outFormat)
	if err != nil {
		return err
	}
	switch format {
	case cli.FormatCSV:
		return cli.NewConfigError("format", "window output is not tabular; use text, json or yaml")
	case cli.FormatText:
		format = cli.FormatYAML
	}

	var at time.Time
	if windowFlags.at != "" {
		at, err = time.Parse(time.RFC3339, windowFlags.at)
		if err != nil {
			return cli.NewConfigError("at", "invalid reference time: "+err.Error())
		}
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if !at.IsZero() {
		a.setClock(func() time.Time { return at })
	}

	cfg, _, err := a.resolve(a.runContext(cmd.Context(), triggerWindow))
	if err != nil {
		return err
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), cfg.Describe())
}
