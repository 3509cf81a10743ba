package core

import (
	"testing"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *contract.Config {
	return &contract.Config{
		LogScaleRatio: contract.DefaultLogScaleRatio,
		Precision:     contract.DefaultPrecision,
	}
}

func TestSeriesState(t *testing.T) {
	assert.Equal(t, schema.HasDataState, seriesState(true, true))
	assert.Equal(t, schema.EmptyState, seriesState(false, true))
	assert.Equal(t, schema.NoDataYetState, seriesState(false, false))
}

func TestAssembleReportSentinels(t *testing.T) {
	// Traffic observed (empty aggregate exists), stars never observed,
	// referrers observed with zero rows.
	obs := Observed{Traffic: true, Referrers: true}
	report := AssembleReport(schema.Ledger{}, nil, nil, obs, testConfig())

	assert.Equal(t, schema.EmptyState, report.Traffic.State)
	assert.Equal(t, schema.NoDataYetState, report.Stars.State)
	assert.Equal(t, schema.NoDataYetState, report.Forks.State)
	assert.Equal(t, schema.EmptyState, report.Referrers.State)
	assert.Equal(t, schema.NoDataYetState, report.Paths.State)

	// Empty metrics carry no points but valid zero totals
	assert.Empty(t, report.Traffic.Points)
	assert.Zero(t, report.Traffic.ViewsTotal)
}

func TestAssembleReportTotalsAndWindow(t *testing.T) {
	led := schema.Ledger{
		Version: 3,
		Traffic: schema.TrafficSeries{Points: []schema.TrafficPoint{
			{Date: mustDay(t, "2021-01-01"), ViewsTotal: 10, ViewsUnique: 5, ClonesTotal: 2, ClonesUnique: 1},
			{Date: mustDay(t, "2021-01-02"), ViewsTotal: 20, ViewsUnique: 8, ClonesTotal: 4, ClonesUnique: 2},
		}},
		Stars: schema.EventSeries{Points: []schema.DailyCount{
			{Date: mustDay(t, "2021-01-02"), Count: 3},
		}},
	}
	obs := Observed{Traffic: true, Stars: true, Forks: true}

	report := AssembleReport(led, nil, nil, obs, testConfig())

	assert.Equal(t, 3, report.LedgerVersion)
	require.Equal(t, schema.HasDataState, report.Traffic.State)
	assert.Equal(t, 30, report.Traffic.ViewsTotal)
	assert.Equal(t, 13, report.Traffic.ViewsUnique)
	assert.Equal(t, 6, report.Traffic.ClonesTotal)
	assert.Equal(t, 3, report.Traffic.ClonesUnique)
	assert.Equal(t, mustDay(t, "2021-01-01"), report.Traffic.Window.Start)
	assert.Equal(t, mustDay(t, "2021-01-02"), report.Traffic.Window.End)

	require.Equal(t, schema.HasDataState, report.Stars.State)
	assert.Equal(t, 3, report.Stars.Total)
	// Stars share the traffic window when they fit inside it
	assert.Equal(t, report.Traffic.Window, report.Stars.Window)

	// Forks were observed but have no rows
	assert.Equal(t, schema.EmptyState, report.Forks.State)
}

func TestEventWindowExtendsPastTraffic(t *testing.T) {
	traffic := schema.ReportWindow{
		Start: mustDay(t, "2021-01-05"),
		End:   mustDay(t, "2021-01-10"),
	}
	stars := schema.EventSeries{Points: []schema.DailyCount{
		{Date: mustDay(t, "2020-12-01"), Count: 1},
		{Date: mustDay(t, "2021-01-12"), Count: 2},
	}}

	window := eventWindow(stars, schema.EventSeries{}, traffic)

	// Early star history widens the window backwards, late events forward
	assert.Equal(t, mustDay(t, "2020-12-01"), window.Start)
	assert.Equal(t, mustDay(t, "2021-01-12"), window.End)
}

func TestDecideScale(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		ratio  float64
		want   schema.AxisScale
	}{
		{
			name:   "flat series stays linear",
			values: []int{10, 12, 11, 9, 10},
			ratio:  30.0,
			want:   schema.LinearScale,
		},
		{
			name:   "viral spike goes log",
			values: []int{2, 3, 2, 5000, 4, 2},
			ratio:  30.0,
			want:   schema.LogScale,
		},
		{
			name:   "zeros are ignored for the median",
			values: []int{0, 0, 0, 2, 3, 400},
			ratio:  30.0,
			want:   schema.LogScale,
		},
		{
			name:   "all zeros stays linear",
			values: []int{0, 0, 0},
			ratio:  30.0,
			want:   schema.LinearScale,
		},
		{
			name:   "empty stays linear",
			values: nil,
			ratio:  30.0,
			want:   schema.LinearScale,
		},
		{
			name:   "lower ratio flips moderate spikes",
			values: []int{10, 10, 10, 150},
			ratio:  5.0,
			want:   schema.LogScale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideScale(tt.values, tt.ratio))
		})
	}
}

func TestAssembleTrafficScalesPerSubSeries(t *testing.T) {
	points := []schema.TrafficPoint{
		{Date: mustDay(t, "2021-01-01"), ViewsTotal: 2, ClonesTotal: 10},
		{Date: mustDay(t, "2021-01-02"), ViewsTotal: 3, ClonesTotal: 11},
		{Date: mustDay(t, "2021-01-03"), ViewsTotal: 5000, ClonesTotal: 12},
	}
	led := schema.Ledger{Traffic: schema.TrafficSeries{Points: points}}

	report := AssembleReport(led, nil, nil, Observed{Traffic: true}, testConfig())

	// The views spike must not drag clones onto a log axis
	assert.Equal(t, schema.LogScale, report.Traffic.ViewsScale)
	assert.Equal(t, schema.LinearScale, report.Traffic.ClonesScale)
}
