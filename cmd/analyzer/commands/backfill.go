package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/automaton-pricing/internal/app"
	appanalysis "github.com/bryanwahyu/automaton-pricing/internal/application/analysis"
)

var backfillLimit int

func init() {
	backfillCmd.Flags().IntVar(&backfillLimit, "limit", appanalysis.DefaultBackfillLimit, "Maximum number of unanalyzed records to process.")
	rootCmd.AddCommand(backfillCmd)
}

var backfillCmd = &cobra.Command{
	Use:   "backfill [--limit N]",
	Short: "Analyzes stored records that have not been analyzed yet.",
	RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
		rep, err := a.Service.Backfill(cmd.Context(), backfillLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "processed %s records (%d ok, %d failed) in %.2fs, %.2f records/s\n",
			humanize.Comma(int64(rep.Processed)), rep.Succeeded, rep.Failed,
			rep.TotalSeconds, rep.RecordsPerSecond)
		for m, n := range rep.AnalysisMethods {
			fmt.Fprintf(out, "  %-13s %d\n", m, n)
		}
		if rep.ReportURL != "" {
			fmt.Fprintf(out, "report: %s\n", rep.ReportURL)
		}
		if rep.Failed > 0 {
			return fmt.Errorf("%w: %d of %d", errFailedRecords, rep.Failed, rep.Processed)
		}
		return nil
	}),
}
