package parquet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/repotraffic/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrafficDaySchema(t *testing.T) {
	s := parquet.SchemaOf(TrafficDay{})

	for _, column := range []string{"date", "views_total", "views_unique", "clones_total", "clones_unique", "provisional"} {
		_, ok := s.Lookup(column)
		assert.True(t, ok, "missing column %s", column)
	}
}

func TestEventDaySchema(t *testing.T) {
	s := parquet.SchemaOf(EventDay{})

	for _, column := range []string{"date", "count", "metric"} {
		_, ok := s.Lookup(column)
		assert.True(t, ok, "missing column %s", column)
	}
}

func TestWriteTrafficParquetRoundtrip(t *testing.T) {
	data := []TrafficDay{
		{
			Date:        time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			ViewsTotal:  40, ViewsUnique: 10,
			ClonesTotal: 3, ClonesUnique: 2,
		},
		{
			Date:        time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC),
			ViewsTotal:  25, ViewsUnique: 8,
			Provisional: true,
		},
	}

	path := filepath.Join(t.TempDir(), "traffic.parquet")
	require.NoError(t, WriteTrafficParquet(data, path))

	loaded, err := parquet.ReadFile[TrafficDay](path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, int32(40), loaded[0].ViewsTotal)
	assert.True(t, loaded[1].Provisional)
	assert.True(t, loaded[0].Date.Equal(data[0].Date))
}

func TestWriteEventsParquetRoundtrip(t *testing.T) {
	data := []EventDay{
		{Date: time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC), Count: 2, Metric: "stargazers"},
		{Date: time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC), Count: 1, Metric: "forks"},
	}

	path := filepath.Join(t.TempDir(), "events.parquet")
	require.NoError(t, WriteEventsParquet(data, path))

	loaded, err := parquet.ReadFile[EventDay](path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "stargazers", loaded[0].Metric)
	assert.Equal(t, int32(1), loaded[1].Count)
}

func TestConvertTrafficSeries(t *testing.T) {
	series := schema.TrafficSeries{Points: []schema.TrafficPoint{
		{Date: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), ViewsTotal: 40, ViewsUnique: 10, ClonesTotal: 3, ClonesUnique: 2, Provisional: true},
	}}

	rows := ConvertTrafficSeries(series)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(40), rows[0].ViewsTotal)
	assert.Equal(t, int32(2), rows[0].ClonesUnique)
	assert.True(t, rows[0].Provisional)

	assert.Empty(t, ConvertTrafficSeries(schema.TrafficSeries{}))
}

func TestConvertEventSeries(t *testing.T) {
	series := schema.EventSeries{Points: []schema.DailyCount{
		{Date: time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC), Count: 2},
	}}

	rows := ConvertEventSeries(series, schema.StargazerKind)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(2), rows[0].Count)
	assert.Equal(t, "stargazers", rows[0].Metric)
}
