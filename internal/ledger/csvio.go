package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/repotraffic/schema"
)

// Aggregate CSV headers. The traffic aggregate carries a provisional
// column so closed-day supersession survives process restarts.
var (
	trafficAggHeader = []string{"time_iso8601", "views_total", "views_unique", "clones_total", "clones_unique", "provisional"}
	starAggHeader    = []string{"time_iso8601", "stars"}
	forkAggHeader    = []string{"time_iso8601", "forks"}
)

// Load reads the existing aggregates from dir, or returns an empty
// ledger when none exist yet. Presence records which files were found.
// An unparsable aggregate yields a CorruptAggregateError; the caller
// must treat that as fatal.
func Load(dir string) (schema.Ledger, Presence, error) {
	var led schema.Ledger
	var presence Presence
	var err error

	trafficPath := filepath.Join(dir, TrafficAggregateFile)
	led.Traffic, presence.Traffic, err = loadTraffic(trafficPath)
	if err != nil {
		return schema.Ledger{}, Presence{}, err
	}

	starPath := filepath.Join(dir, StarAggregateFile)
	led.Stars, presence.Stars, err = loadEvents(starPath, starAggHeader)
	if err != nil {
		return schema.Ledger{}, Presence{}, err
	}

	forkPath := filepath.Join(dir, ForkAggregateFile)
	led.Forks, presence.Forks, err = loadEvents(forkPath, forkAggHeader)
	if err != nil {
		return schema.Ledger{}, Presence{}, err
	}

	return led, presence, nil
}

// Persist writes all aggregate files to dir atomically (temp file plus
// rename per metric), creating the directory on demand. Callers must
// only journal fragments as folded after Persist returns nil.
func Persist(dir string, led schema.Ledger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create ledger directory %q: %w", dir, err)
	}

	if err := writeAtomic(filepath.Join(dir, TrafficAggregateFile), trafficAggHeader, trafficRecords(led.Traffic)); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, StarAggregateFile), starAggHeader, eventRecords(led.Stars)); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, ForkAggregateFile), forkAggHeader, eventRecords(led.Forks)); err != nil {
		return err
	}
	return nil
}

func loadTraffic(path string) (schema.TrafficSeries, bool, error) {
	records, exists, err := readAggregate(path, trafficAggHeader)
	if err != nil || !exists {
		return schema.TrafficSeries{}, exists, err
	}

	var points []schema.TrafficPoint
	var prev time.Time
	for i, record := range records {
		day, err := parseAggDay(record[0])
		if err != nil {
			return schema.TrafficSeries{}, true, &CorruptAggregateError{Path: path, Err: fmt.Errorf("row %d: %w", i+1, err)}
		}
		if !prev.IsZero() && !day.After(prev) {
			return schema.TrafficSeries{}, true, &CorruptAggregateError{Path: path, Err: fmt.Errorf("row %d: date index not strictly increasing", i+1)}
		}
		prev = day

		counts := make([]int, 4)
		for j := 0; j < 4; j++ {
			counts[j], err = strconv.Atoi(record[j+1])
			if err != nil {
				return schema.TrafficSeries{}, true, &CorruptAggregateError{Path: path, Err: fmt.Errorf("row %d: bad count %q", i+1, record[j+1])}
			}
		}
		provisional, err := parseProvisional(record[5])
		if err != nil {
			return schema.TrafficSeries{}, true, &CorruptAggregateError{Path: path, Err: fmt.Errorf("row %d: %w", i+1, err)}
		}

		points = append(points, schema.TrafficPoint{
			Date:         day,
			ViewsTotal:   counts[0],
			ViewsUnique:  counts[1],
			ClonesTotal:  counts[2],
			ClonesUnique: counts[3],
			Provisional:  provisional,
		})
	}
	return schema.TrafficSeries{Points: points}, true, nil
}

func loadEvents(path string, header []string) (schema.EventSeries, bool, error) {
	records, exists, err := readAggregate(path, header)
	if err != nil || !exists {
		return schema.EventSeries{}, exists, err
	}

	var points []schema.DailyCount
	var prev time.Time
	for i, record := range records {
		day, err := parseAggDay(record[0])
		if err != nil {
			return schema.EventSeries{}, true, &CorruptAggregateError{Path: path, Err: fmt.Errorf("row %d: %w", i+1, err)}
		}
		if !prev.IsZero() && !day.After(prev) {
			return schema.EventSeries{}, true, &CorruptAggregateError{Path: path, Err: fmt.Errorf("row %d: date index not strictly increasing", i+1)}
		}
		prev = day

		count, err := strconv.Atoi(record[1])
		if err != nil || count < 0 {
			return schema.EventSeries{}, true, &CorruptAggregateError{Path: path, Err: fmt.Errorf("row %d: bad count %q", i+1, record[1])}
		}
		points = append(points, schema.DailyCount{Date: day, Count: count})
	}
	return schema.EventSeries{Points: points}, true, nil
}

// readAggregate opens an aggregate and validates its header. A missing
// file is a valid empty state, not an error.
func readAggregate(path string, header []string) ([][]string, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to open aggregate %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, true, &CorruptAggregateError{Path: path, Err: err}
	}
	if len(records) == 0 {
		return nil, true, nil
	}

	got := records[0]
	if len(got) != len(header) {
		return nil, true, &CorruptAggregateError{Path: path, Err: fmt.Errorf("unexpected column count %d, want %d", len(got), len(header))}
	}
	for i, col := range header {
		if got[i] != col {
			return nil, true, &CorruptAggregateError{Path: path, Err: fmt.Errorf("unexpected column %q, want %q", got[i], col)}
		}
	}
	return records[1:], true, nil
}

func writeAtomic(path string, header []string, records [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp aggregate: %w", err)
	}
	tmpPath := tmp.Name()

	writer := csv.NewWriter(tmp)
	writeErr := writer.Write(header)
	for _, record := range records {
		if writeErr != nil {
			break
		}
		writeErr = writer.Write(record)
	}
	writer.Flush()
	if writeErr == nil {
		writeErr = writer.Error()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write aggregate %s: %w", path, writeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace aggregate %s: %w", path, err)
	}
	return nil
}

func trafficRecords(series schema.TrafficSeries) [][]string {
	records := make([][]string, 0, len(series.Points))
	for _, p := range series.Points {
		provisional := "0"
		if p.Provisional {
			provisional = "1"
		}
		records = append(records, []string{
			formatAggDay(p.Date),
			strconv.Itoa(p.ViewsTotal),
			strconv.Itoa(p.ViewsUnique),
			strconv.Itoa(p.ClonesTotal),
			strconv.Itoa(p.ClonesUnique),
			provisional,
		})
	}
	return records
}

func eventRecords(series schema.EventSeries) [][]string {
	records := make([][]string, 0, len(series.Points))
	for _, p := range series.Points {
		records = append(records, []string{formatAggDay(p.Date), strconv.Itoa(p.Count)})
	}
	return records
}

// Aggregate rows keep full RFC3339 timestamps at midnight UTC, matching
// the fragment format produced by the fetch collaborator.
func formatAggDay(day time.Time) string {
	return day.UTC().Format(time.RFC3339)
}

func parseAggDay(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return schema.Day(ts, time.UTC), nil
}

func parseProvisional(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("bad provisional flag %q", s)
}
