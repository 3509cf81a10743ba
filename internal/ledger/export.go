package ledger

import (
	"errors"
	"fmt"

	"github.com/huangsam/repotraffic/internal/parquet"
	"github.com/huangsam/repotraffic/schema"
)

// ExecuteExport writes the persisted aggregates in a ledger directory to
// Parquet files for downstream analytics.
func ExecuteExport(ledgerDir, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	led, presence, err := Load(ledgerDir)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	if !presence.Traffic && !presence.Stars && !presence.Forks {
		return errors.New("no aggregate data found to export")
	}

	status := Status(led)
	fmt.Printf("Exporting ledger from %s...\n", ledgerDir)
	fmt.Printf("Traffic days: %d\n", status.TrafficDays)
	fmt.Printf("Star days: %d\n", status.StarDays)
	fmt.Printf("Fork days: %d\n", status.ForkDays)

	// Write traffic aggregate to Parquet
	trafficRows := parquet.ConvertTrafficSeries(led.Traffic)
	trafficFile := outputFile + ".views_clones.parquet"
	if err := parquet.WriteTrafficParquet(trafficRows, trafficFile); err != nil {
		return fmt.Errorf("failed to write traffic aggregate: %w", err)
	}
	fmt.Printf("Exported %d traffic days to: %s\n", len(trafficRows), trafficFile)

	// Write event aggregates to a single Parquet with a metric column
	eventRows := parquet.ConvertEventSeries(led.Stars, schema.StargazerKind)
	eventRows = append(eventRows, parquet.ConvertEventSeries(led.Forks, schema.ForkKind)...)
	eventsFile := outputFile + ".events.parquet"
	if err := parquet.WriteEventsParquet(eventRows, eventsFile); err != nil {
		return fmt.Errorf("failed to write event aggregates: %w", err)
	}
	fmt.Printf("Exported %d event days to: %s\n", len(eventRows), eventsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
