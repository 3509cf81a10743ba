// Package ledger owns the persisted long-term aggregate series. No
// other component touches the on-disk aggregate representation.
//
// The ledger is modeled as a value: FoldIn takes a Ledger and returns a
// new one, never mutating in place, so fold-in idempotence is
// structurally enforced rather than assumed. Persistence is atomic per
// metric file (write to temp, rename), and pruning of source fragments
// is only offered for fragments the fold journal records as durably
// folded and persisted.
package ledger

import (
	"fmt"
	"sort"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/schema"
)

// Aggregate filenames, one per metric.
const (
	TrafficAggregateFile = "views_clones_aggregate.csv"
	StarAggregateFile    = "stargazer_daily_aggregate.csv"
	ForkAggregateFile    = "fork_daily_aggregate.csv"
)

// CorruptAggregateError reports an aggregate file whose on-disk format
// cannot be parsed. This is fatal: merging onto unknown state risks
// silent data loss, so the caller must stop rather than continue.
type CorruptAggregateError struct {
	Path string
	Err  error
}

func (e *CorruptAggregateError) Error() string {
	return fmt.Sprintf("corrupt aggregate %s: %v", e.Path, e.Err)
}

func (e *CorruptAggregateError) Unwrap() error {
	return e.Err
}

// Presence records which aggregate files existed on disk at load time.
// An existing-but-empty aggregate is "observed", which renders
// differently from "never observed".
type Presence struct {
	Traffic bool
	Stars   bool
	Forks   bool
}

// FoldIn merges freshly merged/resampled tables into the ledger by date
// union and returns the resulting ledger value. Folding in the same
// input twice produces the same state as folding it in once; the
// version only advances when the fold actually changed something.
//
// Supersession rules:
//   - a date only in the new table is appended;
//   - a closed (non-provisional) new value supersedes a stored
//     provisional one;
//   - a stored closed value is immutable: a conflicting new value is
//     dropped with a warning;
//   - two provisional values combine field-wise to their maximum, since
//     the source only ever revises not-yet-closed days upward at window
//     boundaries;
//   - event counts never decrease: a lower recomputed count means the
//     new input did not cover that date completely and is rejected.
func FoldIn(led schema.Ledger, traffic schema.TrafficSeries, stars, forks schema.EventSeries) schema.Ledger {
	changed := false

	next := led
	next.Traffic, changed = foldTraffic(led.Traffic, traffic, changed)
	next.Stars, changed = foldEvents(led.Stars, stars, "stars", changed)
	next.Forks, changed = foldEvents(led.Forks, forks, "forks", changed)

	if !changed {
		return led
	}
	next.Version = led.Version + 1
	return next
}

func foldTraffic(old schema.TrafficSeries, fresh schema.TrafficSeries, changed bool) (schema.TrafficSeries, bool) {
	if len(fresh.Points) == 0 {
		return old, changed
	}

	merged := make([]schema.TrafficPoint, len(old.Points))
	copy(merged, old.Points)
	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[schema.FormatDay(p.Date)] = i
	}

	for _, np := range fresh.Points {
		key := schema.FormatDay(np.Date)
		i, exists := index[key]
		if !exists {
			index[key] = len(merged)
			merged = append(merged, np)
			changed = true
			continue
		}

		op := merged[i]
		switch {
		case !op.Provisional:
			// Closed days are immutable.
			if !np.Provisional && !sameCounts(op, np) {
				contract.LogWarn(fmt.Sprintf("traffic day %s: conflicting closed values, keeping ledger", key), nil)
			}
		case !np.Provisional:
			// Closed supersedes provisional.
			if !sameCounts(op, np) || op.Provisional {
				merged[i] = np
				changed = true
			}
		default:
			// Both provisional: field-wise max, stays provisional.
			combined := op
			if np.ViewsTotal > combined.ViewsTotal {
				combined.ViewsTotal = np.ViewsTotal
			}
			if np.ViewsUnique > combined.ViewsUnique {
				combined.ViewsUnique = np.ViewsUnique
			}
			if np.ClonesTotal > combined.ClonesTotal {
				combined.ClonesTotal = np.ClonesTotal
			}
			if np.ClonesUnique > combined.ClonesUnique {
				combined.ClonesUnique = np.ClonesUnique
			}
			if !sameCounts(op, combined) {
				merged[i] = combined
				changed = true
			}
		}
	}

	sortTraffic(merged)
	return schema.TrafficSeries{Points: merged}, changed
}

func foldEvents(old schema.EventSeries, fresh schema.EventSeries, label string, changed bool) (schema.EventSeries, bool) {
	if len(fresh.Points) == 0 {
		return old, changed
	}

	merged := make([]schema.DailyCount, len(old.Points))
	copy(merged, old.Points)
	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[schema.FormatDay(p.Date)] = i
	}

	for _, np := range fresh.Points {
		key := schema.FormatDay(np.Date)
		i, exists := index[key]
		if !exists {
			index[key] = len(merged)
			merged = append(merged, np)
			changed = true
			continue
		}
		if np.Count < merged[i].Count {
			contract.LogWarn(fmt.Sprintf("%s day %s: recomputed count %d below recorded %d, keeping ledger", label, key, np.Count, merged[i].Count), nil)
			continue
		}
		if np.Count > merged[i].Count {
			merged[i] = np
			changed = true
		}
	}

	sortEvents(merged)
	return schema.EventSeries{Points: merged}, changed
}

// sameCounts compares the persisted fields of two traffic points,
// ignoring the in-memory capture time.
func sameCounts(a, b schema.TrafficPoint) bool {
	return a.ViewsTotal == b.ViewsTotal &&
		a.ViewsUnique == b.ViewsUnique &&
		a.ClonesTotal == b.ClonesTotal &&
		a.ClonesUnique == b.ClonesUnique &&
		a.Provisional == b.Provisional
}

func sortTraffic(points []schema.TrafficPoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}

func sortEvents(points []schema.DailyCount) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}

// Prune returns the subset of fragments that the journal records as
// durably folded and persisted, i.e. safe to delete. The caller decides
// whether to actually remove them; the engine never deletes inputs on
// its own.
func Prune(jnl contract.Journal, fragments []schema.Fragment) ([]schema.Fragment, error) {
	var safe []schema.Fragment
	for _, frag := range fragments {
		folded, err := jnl.IsFolded(frag.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to query fold journal: %w", err)
		}
		if folded {
			safe = append(safe, frag)
		}
	}
	return safe, nil
}

// Status summarizes the ledger for status output.
func Status(led schema.Ledger) schema.LedgerStatus {
	status := schema.LedgerStatus{
		Version:     led.Version,
		TrafficDays: len(led.Traffic.Points),
		StarDays:    len(led.Stars.Points),
		ForkDays:    len(led.Forks.Points),
	}
	if status.TrafficDays > 0 {
		status.TrafficStart = led.Traffic.Points[0].Date
		status.TrafficEnd = led.Traffic.Points[status.TrafficDays-1].Date
	}
	return status
}
