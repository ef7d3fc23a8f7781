package main

import (
	"os"

	"github.com/spf13/cobra"

	"hydroforce/forcing/pkg/cli"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string
	outFormat string
)

var rootCmd = &cobra.Command{
	Use:   "forcing",
	Short: "Forcing run-configuration validator and window resolver",
	Long: `Forcing reads the run configuration of a hydrologic forcing engine,
validates every section and resolves the processing window of the run.

The run mode follows from the configuration:
  - RetroFlag = 1 selects a retrospective run between BDateProc and EDateProc
  - A LookBack in minutes selects a realtime run trailing the wall clock
  - LookBack = -9999 selects a reforecast between RefcstBDateProc and RefcstEDateProc

Runtime settings (logging, ledger, metrics, tracing) are read from the
optional [Runtime] section and may be overridden by flags or FORCING_*
environment variables.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code matching the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.NewReporter(os.Stderr).Fatal(err)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "forcing.config", "configuration file (.config/.ini, .yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (json, text)")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "format", "f", "text", "output format: text, json, yaml, csv")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return cli.NewConfigError("flags", err.Error())
	})
}
