package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hydroforce/forcing/pkg/cli"
	"hydroforce/forcing/pkg/config"
	"hydroforce/forcing/pkg/convert"
)

var convertFlags struct {
	to      string
	output  string
	withEnv bool
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Rewrite a configuration in another layout",
	Long: `Rewrite a run configuration as INI, YAML or TOML.

Sections and keys are written in their canonical order and spelling. Lists
become native lists in YAML and TOML, and comma-separated values in INI.
Keys the resolver does not know are kept at the end of their section.
The configuration is not resolved; use validate on the result.

Examples:
  # Legacy configuration to YAML on stdout
  forcing convert --config forcing.config --to yaml

  # Fold FORCING_* overrides into a TOML file
  forcing convert --config forcing.config --to toml --with-env -o forcing.toml`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertFlags.to, "to", "", "target layout: ini, yaml, toml")
	convertCmd.Flags().StringVarP(&convertFlags.output, "output", "o", "", "output file (default: stdout)")
	convertCmd.Flags().BoolVar(&convertFlags.withEnv, "with-env", false, "apply FORCING_* environment overrides")
}

func runConvert(cmd *cobra.Command, args []string) error {
	format := config.Format(strings.ToLower(convertFlags.to))
	switch format {
	case config.FormatINI, config.FormatYAML, config.FormatTOML:
	default:
		return cli.NewConfigError("to", fmt.Sprintf("unsupported layout %q (ini, yaml, toml)", convertFlags.to))
	}

	src, err := config.OpenSource(cfgFile)
	if err != nil {
		return err
	}
	if convertFlags.withEnv {
		src = config.WithEnvOverrides(src)
	}

	var w io.Writer = cmd.OutOrStdout()
	if convertFlags.output != "" {
		f, err := os.Create(convertFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := convert.Convert(w, src, format); err != nil {
		return cli.NewCommandError("convert", err)
	}
	return nil
}
