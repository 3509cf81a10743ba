// Package schema defines the shared data model for fragments, series,
// aggregates and report structures.
package schema

import "time"

// Fragment is one raw snapshot of a metric as captured from the upstream
// source. Fragments are read-only inputs: the engine reconciles across
// them but never rewrites them. Exactly one of the row slices is
// populated, depending on Kind.
type Fragment struct {
	// Path is the on-disk location of the fragment file.
	Path string

	// CapturedAt is the capture timestamp parsed from the filename.
	CapturedAt time.Time

	// Kind identifies the metric this fragment belongs to.
	Kind MetricKind

	// Traffic holds per-day rows for views-clones fragments, sorted by
	// date ascending. Days within a fragment are contiguous and
	// non-repeating; the range is bounded by the source rolling window.
	Traffic []TrafficRow

	// Events holds raw timestamped rows for stargazer/fork fragments.
	Events []EventRow

	// TopList holds ranked rows for referrer/path snapshot fragments.
	TopList []TopListRow
}

// Name returns the base filename of the fragment, used as its stable
// identity in the fold journal.
func (f Fragment) Name() string {
	for i := len(f.Path) - 1; i >= 0; i-- {
		if f.Path[i] == '/' {
			return f.Path[i+1:]
		}
	}
	return f.Path
}

// TrafficRow is one calendar day of view and clone counts as reported
// inside a single fragment. Unique counts never exceed totals.
type TrafficRow struct {
	Date         time.Time `json:"date"`
	ViewsTotal   int       `json:"views_total"`
	ViewsUnique  int       `json:"views_unique"`
	ClonesTotal  int       `json:"clones_total"`
	ClonesUnique int       `json:"clones_unique"`
}

// EventRow is one raw stargazer or fork event.
type EventRow struct {
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
}

// TopListRow is one subject (referrer domain or URL path) with the view
// counts reported for it within a single fragment's window.
type TopListRow struct {
	Subject     string `json:"subject"`
	ViewsTotal  int    `json:"views_total"`
	ViewsUnique int    `json:"views_unique"`
}
