package core

import (
	"testing"
	"time"

	"github.com/huangsam/repotraffic/schema"
	"github.com/stretchr/testify/assert"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	day, err := schema.ParseDay(s)
	if err != nil {
		t.Fatalf("bad day %q: %v", s, err)
	}
	return day
}

func TestChooseDailySingleCandidate(t *testing.T) {
	captured := time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC)
	candidates := []Candidate{
		{Row: schema.TrafficRow{ViewsTotal: 10}, CapturedAt: captured, EdgeDistance: 0},
	}

	winner, reason := ChooseDaily(candidates)
	assert.Equal(t, ReasonOnlyCandidate, reason)
	assert.Equal(t, 10, winner.Row.ViewsTotal)
	assert.True(t, winner.Provisional())
}

func TestChooseDailyInteriorBeatsEdge(t *testing.T) {
	older := time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2021, 1, 16, 0, 0, 0, 0, time.UTC)

	// The older fragment saw the day deep inside its window; the newer
	// one saw it at the edge. Depth wins over recency.
	candidates := []Candidate{
		{Row: schema.TrafficRow{ViewsTotal: 40}, CapturedAt: older, EdgeDistance: 5},
		{Row: schema.TrafficRow{ViewsTotal: 25}, CapturedAt: newer, EdgeDistance: 0},
	}

	winner, reason := ChooseDaily(candidates)
	assert.Equal(t, ReasonInterior, reason)
	assert.Equal(t, 40, winner.Row.ViewsTotal)
	assert.False(t, winner.Provisional())
}

func TestChooseDailyEdgeTieGoesToMostRecent(t *testing.T) {
	older := time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2021, 1, 16, 0, 0, 0, 0, time.UTC)

	candidates := []Candidate{
		{Row: schema.TrafficRow{ViewsTotal: 25}, CapturedAt: older, EdgeDistance: 0},
		{Row: schema.TrafficRow{ViewsTotal: 30}, CapturedAt: newer, EdgeDistance: 0},
	}

	winner, reason := ChooseDaily(candidates)
	assert.Equal(t, ReasonMostRecentEdge, reason)
	assert.Equal(t, 30, winner.Row.ViewsTotal)
	assert.True(t, winner.Provisional())
}

func TestChooseDailyDeterministicAcrossOrderings(t *testing.T) {
	t1 := time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2021, 1, 16, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2021, 1, 17, 0, 0, 0, 0, time.UTC)

	candidates := []Candidate{
		{Row: schema.TrafficRow{ViewsTotal: 1}, CapturedAt: t1, EdgeDistance: 2},
		{Row: schema.TrafficRow{ViewsTotal: 2}, CapturedAt: t3, EdgeDistance: 0},
		{Row: schema.TrafficRow{ViewsTotal: 3}, CapturedAt: t2, EdgeDistance: 4},
	}

	first, _ := ChooseDaily(candidates)

	// Reversed order must produce the same winner
	reversed := []Candidate{candidates[2], candidates[1], candidates[0]}
	second, _ := ChooseDaily(reversed)

	assert.Equal(t, first.Row, second.Row)
	assert.Equal(t, 3, first.Row.ViewsTotal)
}

func TestChooseDailyPanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { ChooseDaily(nil) })
}
