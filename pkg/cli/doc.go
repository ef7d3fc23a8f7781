/*
Package cli provides command-line interface utilities for the forcing tool.

Output Formatting:

Results can be rendered as text, JSON, YAML or CSV:

	formatter := cli.NewFormatter(cli.FormatYAML)
	if err := formatter.FormatTo(os.Stdout, cfg.Describe()); err != nil {
		return err
	}

Error Reporting:

Every resolution failure is fatal. The Reporter prints the diagnostic and
exits with a code derived from the error kind (see ExitCode):

	cli.NewReporter(os.Stderr).Fatal(err)

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
