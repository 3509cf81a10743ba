package schema

import "time"

// JournalStatus holds status information about the fold journal.
type JournalStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	FoldedCount    int       `json:"folded_count"`
	LastFoldedTime time.Time `json:"last_folded_time"`
}

// LedgerStatus holds status information about the persisted aggregates.
type LedgerStatus struct {
	Version      int       `json:"version"`
	TrafficDays  int       `json:"traffic_days"`
	StarDays     int       `json:"star_days"`
	ForkDays     int       `json:"fork_days"`
	TrafficStart time.Time `json:"traffic_start"`
	TrafficEnd   time.Time `json:"traffic_end"`
}
