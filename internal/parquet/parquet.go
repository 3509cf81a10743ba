// Package parquet provides data structures and functions for exporting
// ledger aggregates to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repotraffic/schema"
	"github.com/parquet-go/parquet-go"
)

// TrafficDay represents one reconciled day of the views/clones aggregate.
// This struct maps to the views_clones_aggregate.csv ledger file.
type TrafficDay struct {
	// Date is the calendar day at midnight UTC (stored as TIMESTAMP with nanosecond precision)
	Date time.Time `parquet:"date,snappy"`

	// ViewsTotal is the total view count for the day
	ViewsTotal int32 `parquet:"views_total,snappy"`

	// ViewsUnique is the unique visitor count for the day
	ViewsUnique int32 `parquet:"views_unique,snappy"`

	// ClonesTotal is the total clone count for the day
	ClonesTotal int32 `parquet:"clones_total,snappy"`

	// ClonesUnique is the unique cloner count for the day
	ClonesUnique int32 `parquet:"clones_unique,snappy"`

	// Provisional marks days the source may still revise
	Provisional bool `parquet:"provisional,snappy"`
}

// EventDay represents one day of a stargazer or fork aggregate.
// This struct maps to the stargazer_daily_aggregate.csv and
// fork_daily_aggregate.csv ledger files.
type EventDay struct {
	// Date is the calendar day at midnight UTC (stored as TIMESTAMP with nanosecond precision)
	Date time.Time `parquet:"date,snappy"`

	// Count is the number of distinct events observed on the day
	Count int32 `parquet:"count,snappy"`

	// Metric identifies which event stream the day belongs to
	Metric string `parquet:"metric,snappy"`
}

// WriteTrafficParquet writes a slice of TrafficDay structs to a Parquet file.
func WriteTrafficParquet(data []TrafficDay, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the TrafficDay struct tags
	writer := parquet.NewGenericWriter[TrafficDay](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteEventsParquet writes a slice of EventDay structs to a Parquet file.
func WriteEventsParquet(data []EventDay, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the EventDay struct tags
	writer := parquet.NewGenericWriter[EventDay](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertTrafficSeries converts a schema.TrafficSeries to TrafficDay rows for Parquet export.
func ConvertTrafficSeries(series schema.TrafficSeries) []TrafficDay {
	result := make([]TrafficDay, len(series.Points))
	for i, p := range series.Points {
		result[i] = TrafficDay{
			Date:         p.Date,
			ViewsTotal:   int32(p.ViewsTotal),
			ViewsUnique:  int32(p.ViewsUnique),
			ClonesTotal:  int32(p.ClonesTotal),
			ClonesUnique: int32(p.ClonesUnique),
			Provisional:  p.Provisional,
		}
	}
	return result
}

// ConvertEventSeries converts a schema.EventSeries to EventDay rows for Parquet export.
func ConvertEventSeries(series schema.EventSeries, metric schema.MetricKind) []EventDay {
	result := make([]EventDay, len(series.Points))
	for i, p := range series.Points {
		result[i] = EventDay{
			Date:   p.Date,
			Count:  int32(p.Count),
			Metric: string(metric),
		}
	}
	return result
}
