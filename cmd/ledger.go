package cmd

import (
	"fmt"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/internal/journal"
	"github.com/huangsam/repotraffic/internal/ledger"
	"github.com/huangsam/repotraffic/internal/outwriter"
	"github.com/huangsam/repotraffic/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ledgerCmd groups operations on the persisted aggregates.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect, export, and migrate the persisted aggregates",
	Long: `Manage the ledger: the long-term aggregate files that outlive
GitHub's rolling retention window, plus the fold journal that tracks
which fragments they already contain.

Subcommands:
  status  - Show aggregate sizes, covered range, and journal state
  export  - Write the aggregates to Parquet files for analytics
  migrate - Run fold journal schema migrations

Examples:
  # Check what the ledger currently holds
  repotraffic ledger status

  # Export aggregates for DuckDB or Spark
  repotraffic ledger export --output-file traffic`,
}

// ledgerStatusCmd shows ledger and journal status.
var ledgerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display ledger contents and fold journal state",
	Long: `Show detailed information about the persisted aggregates and the
fold journal.

Displays:
- Ledger version and per-metric day counts
- The continuous date range covered by the views/clones aggregate
- Journal backend, connection state, and folded fragment count
- When a fragment was last folded

Use this to:
- Verify reconciliation runs are extending the aggregates
- Check how much history has accumulated beyond the rolling window
- Debug journal connectivity issues

Examples:
  # Human-readable status
  repotraffic ledger status

  # Status for a non-default ledger directory
  repotraffic ledger status --ledger-dir ./traffic-data`,
	PreRunE: sharedSetupWrapper,
	PostRun: closeJournal,
	Run: func(_ *cobra.Command, _ []string) {
		led, _, err := ledger.Load(cfg.LedgerDir)
		if err != nil {
			contract.LogFatal("Cannot load ledger", err)
		}

		journalStatus, err := fold.GetStatus()
		if err != nil {
			contract.LogFatal("Cannot get journal status", err)
		}

		ow := outwriter.NewOutWriter()
		if err := ow.WriteStatus(ledger.Status(led), journalStatus, cfg); err != nil {
			contract.LogFatal("Cannot write status", err)
		}
	},
}

// ledgerExportCmd exports the aggregates to Parquet.
var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the aggregates to Parquet files",
	Long: `Write the persisted aggregate series to Parquet files for use with
analytics tools such as DuckDB, Spark, or Pandas.

Two files are produced from the given --output-file prefix:
- <prefix>.views_clones.parquet with the daily traffic aggregate
- <prefix>.events.parquet with stargazer and fork daily counts

Examples:
  # Export everything under the traffic prefix
  repotraffic ledger export --output-file traffic

  # Export a non-default ledger directory
  repotraffic ledger export --ledger-dir ./traffic-data --output-file traffic`,
	PreRunE: sharedSetupWrapper,
	PostRun: closeJournal,
	Run: func(_ *cobra.Command, _ []string) {
		if err := ledger.ExecuteExport(cfg.LedgerDir, cfg.OutputFile); err != nil {
			contract.LogFatal("Cannot export ledger", err)
		}
	},
}

// ledgerMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT open the journal or create tables,
// allowing migrations to run on a fresh database.
func ledgerMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get journal-related config values
	backend := schema.DatabaseBackend(viper.GetString("journal-backend"))
	connStr := viper.GetString("journal-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.JournalBackend = backend
	cfg.JournalDBConnect = connStr
	cfg.LedgerDir = viper.GetString("ledger-dir")

	return nil
}

// ledgerMigrateCmd runs fold journal schema migrations.
var ledgerMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run fold journal schema migrations",
	Long: `Apply or roll back schema migrations for the fold journal database.

Migration targets:
- Default (-1): migrate to the latest version
- 0: roll back all migrations to the initial state
- N > 0: migrate to the specific version N

Examples:
  # Migrate the default SQLite journal to the latest schema
  repotraffic ledger migrate

  # Migrate a MySQL journal
  REPOTRAFFIC_JOURNAL_BACKEND=mysql REPOTRAFFIC_JOURNAL_DB_CONNECT="..." repotraffic ledger migrate

  # Roll everything back
  repotraffic ledger migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return ledgerMigrateSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := journal.Migrate(cfg.JournalBackend, cfg.JournalDBConnect, cfg.LedgerDir, targetVersion); err != nil {
			contract.LogFatal("Cannot run journal migrations", err)
		}
		fmt.Println("Migration completed successfully.")
	},
}
