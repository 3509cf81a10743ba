package cmd

import (
	"github.com/huangsam/repotraffic/core"
	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/internal/outwriter"
	"github.com/spf13/cobra"
)

// reportCmd runs the full reconciliation pipeline and prints the report.
var reportCmd = &cobra.Command{
	Use:   "report [fragments-dir]",
	Short: "Reconcile fragments into the ledger and print the traffic report.",
	Long: `Scan a directory of traffic fragment files, merge them into the
persisted ledger, and print the assembled report.

The pipeline:
- Discovers fragment CSVs by their filename convention
- Merges overlapping views/clones windows, resolving conflicts in favor
  of records furthest from a fragment's window edge
- Resamples stargazer and fork events into per-day counts
- Aggregates top referrer and path snapshots across all windows
- Folds everything into the ledger and persists it atomically
- Records folded fragments in the journal so they become prunable

Running with no fragments directory re-emits the report from the
existing ledger. The command fails when views/clones has no data source
at all: no fragments and no prior aggregate.

Examples:
  # Reconcile freshly fetched fragments
  repotraffic report ./fragments

  # Re-emit the report from ledger state only
  repotraffic report

  # Export the report as JSON for a renderer
  repotraffic report ./fragments --output json --output-file report.json

  # Bucket star events in a local timezone
  repotraffic report ./fragments --timezone America/Los_Angeles`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	PostRun: closeJournal,
	Run: func(_ *cobra.Command, _ []string) {
		result, err := core.ExecuteReport(cfg, fold)
		if err != nil {
			contract.LogFatal("Cannot generate report", err)
		}
		ow := outwriter.NewOutWriter()
		if err := ow.WriteReport(result.Report, cfg); err != nil {
			contract.LogFatal("Cannot write report", err)
		}
	},
}
