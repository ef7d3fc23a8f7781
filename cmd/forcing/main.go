// Forcing validates hydrologic forcing run configurations and resolves the
// temporal window a forcing engine run will process.
//
// It reads an INI (legacy ".config"), YAML or TOML configuration, checks every
// section, selects the run mode and computes the processing window:
//   - Retrospective runs between two fixed dates
//   - Realtime runs whose window trails the wall clock
//   - Reforecast runs repeating forecast cycles over a fixed period
//
// Usage:
//
//	# Validate a configuration and print its summary
//	forcing validate --config forcing.config
//
//	# Print the resolved configuration as YAML
//	forcing window --config forcing.config --format yaml
//
//	# Rewrite a legacy INI configuration as TOML
//	forcing convert --config forcing.config --to toml
//
//	# Re-resolve on every change and forecast cycle, serving metrics
//	forcing watch --config forcing.config --metrics-address :9464
//
//	# List recorded resolutions
//	forcing history --outcome failure --since 24h
//
// Resolution failures exit with a code per error kind; see pkg/cli.
package main

func main() {
	Execute()
}
