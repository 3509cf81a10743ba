package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/internal/journal"
	"github.com/huangsam/repotraffic/internal/ledger"
	"github.com/huangsam/repotraffic/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeFragmentFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func pipelineConfig(t *testing.T, fragmentsDir string) *contract.Config {
	t.Helper()
	return &contract.Config{
		FragmentsDir:  fragmentsDir,
		LedgerDir:     filepath.Join(t.TempDir(), "ledger"),
		LogScaleRatio: contract.DefaultLogScaleRatio,
		Location:      time.UTC,
	}
}

func seedFragments(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFragmentFile(t, dir, "2021-01-15_000000_views_clones_series_fragment.csv",
		"time_iso8601,clones_total,clones_unique,views_total,views_unique\n"+
			"2021-01-02T00:00:00Z,3,2,40,10\n"+
			"2021-01-03T00:00:00Z,1,1,25,8\n")
	writeFragmentFile(t, dir, "2021-01-16_000000_stargazer_events_fragment.csv",
		"time_iso8601,actor\n"+
			"2021-01-03T10:00:00Z,alice\n"+
			"2021-01-03T15:00:00Z,bob\n")
	writeFragmentFile(t, dir, "2021-01-16_000000_top_referrers_snapshot.csv",
		"referrer,views_total,views_unique\n"+
			"news.ycombinator.com,100,80\n")
	return dir
}

func TestExecuteReportNoTrafficData(t *testing.T) {
	cfg := pipelineConfig(t, t.TempDir())
	jnl := &journal.MockJournal{}

	_, err := ExecuteReport(cfg, jnl)
	assert.ErrorIs(t, err, ErrNoTrafficData)
	jnl.AssertNotCalled(t, "MarkFolded")
}

func TestExecuteReportEventOnlyFragmentsStillFatal(t *testing.T) {
	// Stars alone cannot satisfy the mandatory views/clones metric
	dir := t.TempDir()
	writeFragmentFile(t, dir, "2021-01-16_000000_stargazer_events_fragment.csv",
		"time_iso8601,actor\n2021-01-03T10:00:00Z,alice\n")

	cfg := pipelineConfig(t, dir)
	jnl := &journal.MockJournal{}

	_, err := ExecuteReport(cfg, jnl)
	assert.ErrorIs(t, err, ErrNoTrafficData)
}

func TestExecuteReportFullRun(t *testing.T) {
	dir := seedFragments(t)
	cfg := pipelineConfig(t, dir)

	jnl := &journal.MockJournal{}
	jnl.On("MarkFolded", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := ExecuteReport(cfg, jnl)
	require.NoError(t, err)

	// All three fragments were journaled after persistence
	assert.Len(t, result.Folded, 3)
	jnl.AssertNumberOfCalls(t, "MarkFolded", 3)

	// Ledger advanced from empty and was written to disk
	assert.Equal(t, 1, result.Ledger.Version)
	_, statErr := os.Stat(filepath.Join(cfg.LedgerDir, ledger.TrafficAggregateFile))
	assert.NoError(t, statErr)

	// Report states reflect what was observed
	assert.Equal(t, schema.HasDataState, result.Report.Traffic.State)
	assert.Equal(t, schema.HasDataState, result.Report.Stars.State)
	assert.Equal(t, schema.NoDataYetState, result.Report.Forks.State)
	assert.Equal(t, schema.HasDataState, result.Report.Referrers.State)
	assert.Equal(t, schema.NoDataYetState, result.Report.Paths.State)

	assert.Equal(t, 65, result.Report.Traffic.ViewsTotal)
	assert.Equal(t, 2, result.Report.Stars.Total)
}

func TestExecuteReportIdempotentRefold(t *testing.T) {
	dir := seedFragments(t)
	cfg := pipelineConfig(t, dir)

	jnl := &journal.MockJournal{}
	jnl.On("MarkFolded", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	first, err := ExecuteReport(cfg, jnl)
	require.NoError(t, err)

	// Folding the same fragments again must not change the ledger
	second, err := ExecuteReport(cfg, jnl)
	require.NoError(t, err)
	assert.Equal(t, first.Ledger.Version, second.Ledger.Version)
	assert.Equal(t, first.Ledger.Traffic, second.Ledger.Traffic)
	assert.Equal(t, first.Ledger.Stars, second.Ledger.Stars)
}

func TestExecuteReportFromLedgerAlone(t *testing.T) {
	dir := seedFragments(t)
	cfg := pipelineConfig(t, dir)

	jnl := &journal.MockJournal{}
	jnl.On("MarkFolded", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := ExecuteReport(cfg, jnl)
	require.NoError(t, err)

	// Re-run with an empty fragments directory: ledger state carries the report
	cfg.FragmentsDir = t.TempDir()
	result, err := ExecuteReport(cfg, jnl)
	require.NoError(t, err)

	assert.Equal(t, schema.HasDataState, result.Report.Traffic.State)
	assert.Equal(t, schema.HasDataState, result.Report.Stars.State)
	// Top lists are per-run: no referrer fragments this run means no data
	assert.Equal(t, schema.NoDataYetState, result.Report.Referrers.State)
	assert.Empty(t, result.Folded)
}

func TestExecuteReportJournalFailureDoesNotAbort(t *testing.T) {
	dir := seedFragments(t)
	cfg := pipelineConfig(t, dir)

	jnl := &journal.MockJournal{}
	jnl.On("MarkFolded", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	result, err := ExecuteReport(cfg, jnl)
	require.NoError(t, err)

	// Nothing journaled, so nothing is prunable, but the report succeeds
	assert.Empty(t, result.Folded)
	assert.Equal(t, schema.HasDataState, result.Report.Traffic.State)
}
