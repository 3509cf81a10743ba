// Package cmd defines the command-line interface for repotraffic.
package cmd

import (
	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(fragmentsCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the fragments subcommands to the parent fragments command
	fragmentsCmd.AddCommand(fragmentsListCmd)
	fragmentsCmd.AddCommand(fragmentsPruneCmd)

	// Add the ledger subcommands to the parent ledger command
	ledgerCmd.AddCommand(ledgerStatusCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)
	ledgerCmd.AddCommand(ledgerMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("ledger-dir", contract.DefaultLedgerDir, "Directory holding aggregate files and the fold journal")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Float64("log-scale-ratio", contract.DefaultLogScaleRatio, "Peak-to-median ratio above which a series is plotted on a log axis")
	rootCmd.PersistentFlags().String("timezone", "UTC", "Timezone for bucketing event timestamps into calendar days")
	rootCmd.PersistentFlags().String("journal-backend", string(schema.SQLiteBackend), "Fold journal backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("journal-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of fragmentsPruneCmd to Viper
	fragmentsPruneCmd.Flags().Bool("delete", false, "Actually delete prunable fragment files (default is a dry run)")
	if err := viper.BindPFlags(fragmentsPruneCmd.Flags()); err != nil {
		contract.LogFatal("Error binding fragments prune flags", err)
	}

	// Bind all flags of ledgerMigrateCmd to Viper
	ledgerMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(ledgerMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ledger migrate flags", err)
	}
}
