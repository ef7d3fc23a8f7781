package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"hydroforce/forcing/pkg/cli"
	"hydroforce/forcing/pkg/ledger"
	"hydroforce/forcing/pkg/ledger/storage"
)

var historyFlags struct {
	since   time.Duration
	mode    string
	outcome string
	trigger string
	path    string
	limit   int
	offset  int
	order   string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded resolutions",
	Long: `List the resolutions recorded in the run ledger, newest first.

The ledger backend is taken from the [Runtime] section of --config, or the
defaults when the file has none.

Examples:
  # Failures of the last day
  forcing history --outcome failure --since 24h

  # Realtime resolutions as CSV
  forcing history --mode realtime --format csv`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only records newer than this (e.g. 24h)")
	historyCmd.Flags().StringVar(&historyFlags.mode, "mode", "", "filter by run mode (retrospective, realtime, reforecast)")
	historyCmd.Flags().StringVar(&historyFlags.outcome, "outcome", "", "filter by outcome (success, failure)")
	historyCmd.Flags().StringVar(&historyFlags.trigger, "trigger", "", "filter by trigger (validate, window, startup, file, signal, cycle)")
	historyCmd.Flags().StringVar(&historyFlags.path, "path", "", "filter by configuration path")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", ledger.DefaultLimit, "max results")
	historyCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
	historyCmd.Flags().StringVar(&historyFlags.order, "order", "desc", "sort order: asc, desc")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(outFormat)
	if err != nil {
		return err
	}

	settings, err := loadSettings(cfgFile)
	if err != nil {
		return err
	}

	store, err := storage.Open(settings)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	query := &ledger.Query{
		ConfigPath: historyFlags.path,
		Mode:       historyFlags.mode,
		Outcome:    historyFlags.outcome,
		Trigger:    historyFlags.trigger,
		Limit:      historyFlags.limit,
		Offset:     historyFlags.offset,
		SortOrder:  historyFlags.order,
	}
	if historyFlags.since > 0 {
		since := time.Now().Add(-historyFlags.since)
		query.Since = &since
	}
	if err := ledger.ValidateQuery(query); err != nil {
		return cli.NewConfigError("query", err.Error())
	}

	ctx := cmd.Context()
	records, err := store.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("query failed: %w", err))
	}
	total, err := store.Count(ctx, query)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("count failed: %w", err))
	}

	out := cmd.OutOrStdout()
	switch format {
	case cli.FormatText:
		return writeHistoryText(out, ledger.Records(records), total)
	case cli.FormatCSV:
		return cli.NewFormatter(format).FormatTo(out, ledger.Records(records))
	default:
		return cli.NewFormatter(format).FormatTo(out, map[string]any{
			"total_records": total,
			"records":       records,
		})
	}
}

func writeHistoryText(w io.Writer, records ledger.Records, total int64) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No resolutions recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORDED\tTRIGGER\tOUTCOME\tMODE\tWINDOW\tSTEPS\tDETAIL")
	for _, r := range records {
		window, detail := "-", ""
		if r.Outcome == ledger.OutcomeSuccess {
			window = r.WindowBegin + ".." + r.WindowEnd
		} else {
			detail = strings.TrimSpace(r.ErrorKind + " " + r.ErrorField)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.RecordedAt.Format(time.RFC3339),
			r.Trigger,
			r.Outcome,
			orDash(r.Mode),
			window,
			r.NumOutputSteps,
			detail,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if shown := int64(len(records)); shown < total {
		fmt.Fprintf(w, "\n%d of %d records shown. Use --limit and --offset for pagination.\n", shown, total)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
