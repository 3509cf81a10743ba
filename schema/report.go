package schema

import "time"

// ReportWindow is the plotting time window shared by related series.
type ReportWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether the window is unset.
func (w ReportWindow) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// TrafficReport is the presentation-ready views/clones structure handed
// to the external renderer.
type TrafficReport struct {
	State  SeriesState    `json:"state"`
	Points []TrafficPoint `json:"points,omitempty"`

	// Cumulative totals across the whole series.
	ViewsTotal   int `json:"views_total"`
	ViewsUnique  int `json:"views_unique"`
	ClonesTotal  int `json:"clones_total"`
	ClonesUnique int `json:"clones_unique"`

	Window ReportWindow `json:"window"`

	// Scales are decided per sub-series so one spiky series does not
	// force the other onto a log axis.
	ViewsScale  AxisScale `json:"views_scale"`
	ClonesScale AxisScale `json:"clones_scale"`
}

// EventReport is the presentation-ready stargazer or fork structure.
type EventReport struct {
	Metric MetricKind   `json:"metric"`
	State  SeriesState  `json:"state"`
	Points []DailyCount `json:"points,omitempty"`
	Total  int          `json:"total"`
	Window ReportWindow `json:"window"`
	Scale  AxisScale    `json:"scale"`
}

// TopListReport is the presentation-ready referrer or path ranking.
type TopListReport struct {
	Metric  MetricKind     `json:"metric"`
	State   SeriesState    `json:"state"`
	Entries []TopListEntry `json:"entries,omitempty"`
}

// ReportData is the full assembled structure consumed by the external
// report renderer. Every metric carries an explicit state discriminant.
type ReportData struct {
	GeneratedAt   time.Time     `json:"generated_at"`
	LedgerVersion int           `json:"ledger_version"`
	Traffic       TrafficReport `json:"traffic"`
	Stars         EventReport   `json:"stars"`
	Forks         EventReport   `json:"forks"`
	Referrers     TopListReport `json:"referrers"`
	Paths         TopListReport `json:"paths"`
}
