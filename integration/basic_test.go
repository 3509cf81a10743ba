//go:build basic

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReportEndToEnd reconciles fixture fragments into a fresh ledger
// using the default SQLite journal, then verifies follow-up commands.
func TestReportEndToEnd(t *testing.T) {
	fragmentsDir := writeFixtureFragments(t)
	ledgerDir := filepath.Join(t.TempDir(), "ledger")

	// First run: fold everything in
	err := runRepoTrafficCommand(t, "report", fragmentsDir, "--ledger-dir", ledgerDir)
	require.NoError(t, err)

	// Aggregates and journal should exist now
	for _, name := range []string{"views_clones_aggregate.csv", "stargazer_daily_aggregate.csv", "fork_daily_aggregate.csv"} {
		_, err := os.Stat(filepath.Join(ledgerDir, name))
		assert.NoError(t, err, "aggregate %s should exist", name)
	}
	_, err = os.Stat(filepath.Join(ledgerDir, ".repotraffic_journal.db"))
	assert.NoError(t, err, "journal db should exist")

	// Second run with the same fragments must succeed (idempotent fold)
	err = runRepoTrafficCommand(t, "report", fragmentsDir, "--ledger-dir", ledgerDir)
	require.NoError(t, err)

	// Report from ledger alone, JSON output
	err = runRepoTrafficCommand(t, "report", "--ledger-dir", ledgerDir, "--output", "json")
	require.NoError(t, err)

	// Fragment inventory and status
	err = runRepoTrafficCommand(t, "fragments", "list", fragmentsDir, "--ledger-dir", ledgerDir)
	require.NoError(t, err)
	err = runRepoTrafficCommand(t, "ledger", "status", "--ledger-dir", ledgerDir)
	require.NoError(t, err)

	// Prune: everything was journaled, so --delete must empty the directory
	err = runRepoTrafficCommand(t, "fragments", "prune", fragmentsDir, "--ledger-dir", ledgerDir, "--delete")
	require.NoError(t, err)
	entries, err := os.ReadDir(fragmentsDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "all folded fragments should be pruned")

	// Report still works from the ledger after pruning
	err = runRepoTrafficCommand(t, "report", "--ledger-dir", ledgerDir)
	require.NoError(t, err)
}

// TestReportNoData verifies the fatal exit when views/clones has no
// data source at all.
func TestReportNoData(t *testing.T) {
	ledgerDir := filepath.Join(t.TempDir(), "ledger")

	err := runRepoTrafficCommand(t, "report", "--ledger-dir", ledgerDir)
	assert.Error(t, err, "report should fail without fragments or aggregates")
}

// TestLedgerExport verifies Parquet export after a reconciliation run.
func TestLedgerExport(t *testing.T) {
	fragmentsDir := writeFixtureFragments(t)
	ledgerDir := filepath.Join(t.TempDir(), "ledger")
	outPrefix := filepath.Join(t.TempDir(), "traffic")

	err := runRepoTrafficCommand(t, "report", fragmentsDir, "--ledger-dir", ledgerDir)
	require.NoError(t, err)

	err = runRepoTrafficCommand(t, "ledger", "export", "--ledger-dir", ledgerDir, "--output-file", outPrefix)
	require.NoError(t, err)

	for _, suffix := range []string{".views_clones.parquet", ".events.parquet"} {
		_, err := os.Stat(outPrefix + suffix)
		assert.NoError(t, err, "export %s should exist", suffix)
	}
}
