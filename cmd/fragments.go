package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/internal/fragstore"
	"github.com/huangsam/repotraffic/internal/ledger"
	"github.com/huangsam/repotraffic/internal/outwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// fragmentsCmd groups fragment inventory operations.
var fragmentsCmd = &cobra.Command{
	Use:   "fragments",
	Short: "Inspect and prune traffic fragment files",
	Long: `Manage the fragment files produced by the fetch collaborator.

Fragments are point-in-time snapshots of GitHub's rolling traffic
window. Once a fragment has been folded into the ledger and persisted,
the journal records it and the file becomes safe to delete.

Subcommands:
  list  - Show discovered fragments and their fold state
  prune - Report or delete fragments the journal marks as folded

Examples:
  # See what a fragments directory contains
  repotraffic fragments list ./fragments

  # Delete everything already folded into the ledger
  repotraffic fragments prune ./fragments --delete`,
}

// fragmentsListCmd lists discovered fragments.
var fragmentsListCmd = &cobra.Command{
	Use:   "list [fragments-dir]",
	Short: "Show discovered fragments and their fold state",
	Long: `Scan a directory for fragment files and list each with its kind,
capture time, row count, and whether the journal records it as folded.

Files that do not match the fragment naming convention are skipped.

Examples:
  # List fragments as a table
  repotraffic fragments list ./fragments

  # Machine-readable inventory
  repotraffic fragments list ./fragments --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	PostRun: closeJournal,
	Run: func(_ *cobra.Command, _ []string) {
		fragments, err := fragstore.Scan(cfg.FragmentsDir)
		if err != nil {
			contract.LogFatal("Cannot scan fragments", err)
		}

		folded := make(map[string]bool, len(fragments))
		for _, frag := range fragments {
			isFolded, err := fold.IsFolded(frag.Name())
			if err != nil {
				contract.LogFatal("Cannot query fold journal", err)
			}
			folded[frag.Name()] = isFolded
		}

		ow := outwriter.NewOutWriter()
		if err := ow.WriteFragments(fragments, folded, cfg); err != nil {
			contract.LogFatal("Cannot write fragment list", err)
		}
	},
}

// fragmentsPruneCmd reports or deletes prunable fragments.
var fragmentsPruneCmd = &cobra.Command{
	Use:   "prune [fragments-dir]",
	Short: "Report or delete fragments already folded into the ledger",
	Long: `Identify fragment files that the journal records as durably folded
and persisted, i.e. safe to delete without losing history.

By default this is a dry run that only reports prunable files. Pass
--delete to actually remove them. Fragments never journaled, for
example after a run with --journal-backend none, are never considered
prunable.

Examples:
  # Dry run: see what would be removed
  repotraffic fragments prune ./fragments

  # Remove all folded fragments
  repotraffic fragments prune ./fragments --delete`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	PostRun: closeJournal,
	Run: func(_ *cobra.Command, _ []string) {
		fragments, err := fragstore.Scan(cfg.FragmentsDir)
		if err != nil {
			contract.LogFatal("Cannot scan fragments", err)
		}

		safe, err := ledger.Prune(fold, fragments)
		if err != nil {
			contract.LogFatal("Cannot determine prunable fragments", err)
		}
		if len(safe) == 0 {
			fmt.Println("No prunable fragments found.")
			return
		}

		if !viper.GetBool("delete") {
			for _, frag := range safe {
				fmt.Printf("Would prune %s\n", frag.Name())
			}
			fmt.Printf("%d of %d fragments are prunable. Re-run with --delete to remove them.\n", len(safe), len(fragments))
			return
		}

		removed := 0
		for _, frag := range safe {
			if err := os.Remove(frag.Path); err != nil {
				contract.LogWarn(fmt.Sprintf("failed to remove %s", frag.Name()), err)
				continue
			}
			fmt.Printf("Pruned %s\n", frag.Name())
			removed++
		}
		fmt.Printf("Removed %d of %d prunable fragments.\n", removed, len(safe))
	},
}
