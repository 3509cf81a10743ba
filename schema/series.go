package schema

import "time"

// TrafficPoint is one reconciled calendar day in the merged views/clones
// series. Provisional marks values whose winning record sat at a
// fragment window edge; the source may still revise such days, so a
// later interior (closed) record is allowed to supersede them.
type TrafficPoint struct {
	Date         time.Time `json:"date"`
	ViewsTotal   int       `json:"views_total"`
	ViewsUnique  int       `json:"views_unique"`
	ClonesTotal  int       `json:"clones_total"`
	ClonesUnique int       `json:"clones_unique"`
	Provisional  bool      `json:"provisional"`

	// CapturedAt is the capture time of the fragment that supplied this
	// value. In-memory only; not persisted in the aggregate.
	CapturedAt time.Time `json:"-"`
}

// TrafficSeries is a merged per-day views/clones table with a strictly
// increasing, duplicate-free date index.
type TrafficSeries struct {
	Points []TrafficPoint `json:"points"`
}

// DailyCount is one calendar day with the number of distinct events
// observed on it. Days with zero events are gaps, not zero rows.
type DailyCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// EventSeries is a resampled per-day event count table with a strictly
// increasing, duplicate-free date index.
type EventSeries struct {
	Points []DailyCount `json:"points"`
}

// TopListEntry is one subject in the aggregated ranking across all
// observed fragment windows.
type TopListEntry struct {
	Subject     string `json:"subject"`
	ViewsTotal  int    `json:"views_total"`
	ViewsUnique int    `json:"views_unique"`

	// Fragments is the number of fragments that listed this subject in
	// their top-N. Absence from a fragment is not a zero observation.
	Fragments int `json:"fragments"`
}

// Ledger is the persisted long-term state across all metrics. It is a
// value: fold-in never mutates a Ledger in place, it returns a new one
// with Version incremented, so idempotence is structurally enforced.
type Ledger struct {
	Version int           `json:"version"`
	Traffic TrafficSeries `json:"traffic"`
	Stars   EventSeries   `json:"stars"`
	Forks   EventSeries   `json:"forks"`
}

// HasTraffic reports whether the ledger carries any views/clones rows.
func (l Ledger) HasTraffic() bool {
	return len(l.Traffic.Points) > 0
}

// Dates returns the date index of a traffic series.
func (s TrafficSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

// Dates returns the date index of an event series.
func (s EventSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

// Total returns the sum of all counts in the series.
func (s EventSeries) Total() int {
	total := 0
	for _, p := range s.Points {
		total += p.Count
	}
	return total
}
