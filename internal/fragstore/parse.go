package fragstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/schema"
)

// Expected CSV headers per fragment kind, from the fetch collaborator.
var (
	trafficHeader = []string{"time_iso8601", "clones_total", "clones_unique", "views_total", "views_unique"}
	eventHeader   = []string{"time_iso8601", "actor"}
)

// parseFragment reads and type-checks one fragment file. Row-level
// inconsistencies (duplicate days, days outside the declared window,
// unique counts above totals) are recovered with a warning; structural
// problems (bad header, unreadable CSV) fail the whole fragment.
func parseFragment(path string, kind schema.MetricKind, capturedAt time.Time) (schema.Fragment, error) {
	records, err := readCSV(path)
	if err != nil {
		return schema.Fragment{}, err
	}

	frag := schema.Fragment{
		Path:       path,
		CapturedAt: capturedAt,
		Kind:       kind,
	}

	switch kind {
	case schema.ViewsClonesKind:
		frag.Traffic, err = parseTrafficRows(path, records)
	case schema.StargazerKind, schema.ForkKind:
		frag.Events, err = parseEventRows(records)
	case schema.ReferrerKind, schema.PathKind:
		frag.TopList, err = parseTopListRows(kind, records)
	default:
		err = fmt.Errorf("unknown fragment kind %q", kind)
	}
	if err != nil {
		return schema.Fragment{}, err
	}
	return frag, nil
}

// readCSV loads all records from a CSV file. A file with only a header,
// or no content at all, is valid and yields zero data records.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fragment: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return records, nil
}

// checkHeader validates the first record against the expected header.
func checkHeader(records [][]string, expected []string) error {
	if len(records) == 0 {
		return nil // empty fragment, contributes nothing
	}
	header := records[0]
	if len(header) != len(expected) {
		return fmt.Errorf("unexpected column count %d, want %d", len(header), len(expected))
	}
	for i, col := range expected {
		if header[i] != col {
			return fmt.Errorf("unexpected column %q at position %d, want %q", header[i], i, col)
		}
	}
	return nil
}

// parseTrafficRows parses per-day views/clones records. The declared
// window starts at the first reported day and is bounded by the source
// rolling window; rows outside it and duplicate days are dropped with a
// warning rather than poisoning the merge.
func parseTrafficRows(path string, records [][]string) ([]schema.TrafficRow, error) {
	if err := checkHeader(records, trafficHeader); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []schema.TrafficRow
	seen := make(map[time.Time]struct{})
	var windowStart, windowEnd time.Time

	for i, record := range records[1:] {
		if len(record) != len(trafficHeader) {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", i+1, len(trafficHeader), len(record))
		}
		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad timestamp %q: %w", i+1, record[0], err)
		}
		counts, err := parseInts(record[1:])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		day := schema.Day(ts, time.UTC)
		if windowStart.IsZero() {
			windowStart = day
			windowEnd = windowStart.AddDate(0, 0, contract.RollingWindowDays-1)
		}
		if day.Before(windowStart) || day.After(windowEnd) {
			contract.LogWarn(fmt.Sprintf("fragment %s: day %s outside declared window, ignoring row", path, schema.FormatDay(day)), nil)
			continue
		}
		if _, dup := seen[day]; dup {
			contract.LogWarn(fmt.Sprintf("fragment %s: duplicate day %s, keeping first row", path, schema.FormatDay(day)), nil)
			continue
		}
		seen[day] = struct{}{}

		row := schema.TrafficRow{
			Date:         day,
			ClonesTotal:  counts[0],
			ClonesUnique: counts[1],
			ViewsTotal:   counts[2],
			ViewsUnique:  counts[3],
		}
		if row.ViewsUnique > row.ViewsTotal {
			contract.LogWarn(fmt.Sprintf("fragment %s: day %s unique views exceed total, clamping", path, schema.FormatDay(day)), nil)
			row.ViewsUnique = row.ViewsTotal
		}
		if row.ClonesUnique > row.ClonesTotal {
			contract.LogWarn(fmt.Sprintf("fragment %s: day %s unique clones exceed total, clamping", path, schema.FormatDay(day)), nil)
			row.ClonesUnique = row.ClonesTotal
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// parseEventRows parses raw stargazer/fork event records.
func parseEventRows(records [][]string) ([]schema.EventRow, error) {
	if err := checkHeader(records, eventHeader); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []schema.EventRow
	for i, record := range records[1:] {
		if len(record) != len(eventHeader) {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", i+1, len(eventHeader), len(record))
		}
		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad timestamp %q: %w", i+1, record[0], err)
		}
		rows = append(rows, schema.EventRow{Timestamp: ts, Actor: record[1]})
	}
	return rows, nil
}

// parseTopListRows parses a top-referrer or top-path snapshot. The
// subject column name differs per kind (referrer vs url_path).
func parseTopListRows(kind schema.MetricKind, records [][]string) ([]schema.TopListRow, error) {
	subjectCol := "referrer"
	if kind == schema.PathKind {
		subjectCol = "url_path"
	}
	if err := checkHeader(records, []string{subjectCol, "views_total", "views_unique"}); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []schema.TopListRow
	for i, record := range records[1:] {
		if len(record) != 3 {
			return nil, fmt.Errorf("row %d: expected 3 fields, got %d", i+1, len(record))
		}
		counts, err := parseInts(record[1:])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows = append(rows, schema.TopListRow{
			Subject:     record[0],
			ViewsTotal:  counts[0],
			ViewsUnique: counts[1],
		})
	}
	return rows, nil
}

// parseInts parses a slice of non-negative integer fields.
func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad count %q: %w", f, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("negative count %d", v)
		}
		out[i] = v
	}
	return out, nil
}
