package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/repotraffic/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDirIsEmpty(t *testing.T) {
	led, presence, err := Load(filepath.Join(t.TempDir(), "never-created"))
	require.NoError(t, err)
	assert.False(t, led.HasTraffic())
	assert.False(t, presence.Traffic)
	assert.False(t, presence.Stars)
	assert.False(t, presence.Forks)
}

func TestPersistLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	led := schema.Ledger{
		Version: 2,
		Traffic: schema.TrafficSeries{Points: []schema.TrafficPoint{
			point(t, "2021-01-01", 40, false),
			point(t, "2021-01-02", 25, true),
		}},
		Stars: schema.EventSeries{Points: []schema.DailyCount{
			{Date: day(t, "2021-01-02"), Count: 3},
		}},
	}

	require.NoError(t, Persist(dir, led))

	loaded, presence, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, presence.Traffic)
	assert.True(t, presence.Stars)
	assert.True(t, presence.Forks)

	assert.Equal(t, led.Traffic, loaded.Traffic)
	assert.Equal(t, led.Stars, loaded.Stars)
	assert.Empty(t, loaded.Forks.Points)

	// The ledger version lives in the fold journal, not the CSVs
	assert.Equal(t, 0, loaded.Version)
}

func TestPersistKeepsProvisionalColumn(t *testing.T) {
	dir := t.TempDir()
	led := schema.Ledger{Traffic: schema.TrafficSeries{Points: []schema.TrafficPoint{
		point(t, "2021-01-02", 25, true),
	}}}
	require.NoError(t, Persist(dir, led))

	body, err := os.ReadFile(filepath.Join(dir, TrafficAggregateFile))
	require.NoError(t, err)
	assert.Contains(t, string(body), "time_iso8601,views_total,views_unique,clones_total,clones_unique,provisional")
	assert.Contains(t, string(body), "2021-01-02T00:00:00Z,25,12,2,1,1")
}

func TestLoadEmptyAggregateIsObserved(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Persist(dir, schema.Ledger{}))

	led, presence, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, presence.Traffic)
	assert.False(t, led.HasTraffic())
}

func TestLoadCorruptAggregate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "wrong header",
			body: "date,hits\n2021-01-01T00:00:00Z,5\n",
		},
		{
			name: "bad count",
			body: "time_iso8601,views_total,views_unique,clones_total,clones_unique,provisional\n" +
				"2021-01-01T00:00:00Z,abc,1,1,1,0\n",
		},
		{
			name: "bad provisional flag",
			body: "time_iso8601,views_total,views_unique,clones_total,clones_unique,provisional\n" +
				"2021-01-01T00:00:00Z,1,1,1,1,maybe\n",
		},
		{
			name: "dates not strictly increasing",
			body: "time_iso8601,views_total,views_unique,clones_total,clones_unique,provisional\n" +
				"2021-01-02T00:00:00Z,1,1,1,1,0\n" +
				"2021-01-01T00:00:00Z,1,1,1,1,0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, TrafficAggregateFile), []byte(tt.body), 0o644))

			_, _, err := Load(dir)
			var corrupt *CorruptAggregateError
			require.ErrorAs(t, err, &corrupt)
			assert.Equal(t, filepath.Join(dir, TrafficAggregateFile), corrupt.Path)
		})
	}
}

func TestLoadCorruptEventAggregate(t *testing.T) {
	dir := t.TempDir()
	body := "time_iso8601,stars\n2021-01-01T00:00:00Z,-4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, StarAggregateFile), []byte(body), 0o644))

	_, _, err := Load(dir)
	var corrupt *CorruptAggregateError
	assert.True(t, errors.As(err, &corrupt))
}

func TestPersistOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Persist(dir, schema.Ledger{Traffic: schema.TrafficSeries{Points: []schema.TrafficPoint{
		point(t, "2021-01-01", 10, false),
	}}}))
	require.NoError(t, Persist(dir, schema.Ledger{Traffic: schema.TrafficSeries{Points: []schema.TrafficPoint{
		point(t, "2021-01-01", 10, false),
		point(t, "2021-01-02", 20, true),
	}}}))

	led, _, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, led.Traffic.Points, 2)

	// No stray temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
