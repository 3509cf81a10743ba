package core

import (
	"sort"
	"time"

	"github.com/huangsam/repotraffic/schema"
)

// MergeTraffic collapses N overlapping rolling-window fragments into one
// per-day table covering the union of all observed dates. Each date is
// resolved through the closure policy; the winning record's edge
// position is preserved as the point's provisional flag so a later run
// can supersede it once the source closes the day out.
//
// Fragments with zero rows are valid and contribute nothing. Zero
// fragments yield an explicitly empty series, not an error: a fetch
// cycle that produced no new snapshot is expected.
func MergeTraffic(fragments []schema.Fragment) schema.TrafficSeries {
	byDate := make(map[time.Time][]Candidate)

	for _, frag := range fragments {
		n := len(frag.Traffic)
		for i, row := range frag.Traffic {
			dist := i
			if n-1-i < dist {
				dist = n - 1 - i
			}
			byDate[row.Date] = append(byDate[row.Date], Candidate{
				Row:          row,
				CapturedAt:   frag.CapturedAt,
				EdgeDistance: dist,
			})
		}
	}

	if len(byDate) == 0 {
		return schema.TrafficSeries{}
	}

	points := make([]schema.TrafficPoint, 0, len(byDate))
	for date, candidates := range byDate {
		winner, _ := ChooseDaily(candidates)
		points = append(points, schema.TrafficPoint{
			Date:         date,
			ViewsTotal:   winner.Row.ViewsTotal,
			ViewsUnique:  winner.Row.ViewsUnique,
			ClonesTotal:  winner.Row.ClonesTotal,
			ClonesUnique: winner.Row.ClonesUnique,
			Provisional:  winner.Provisional(),
			CapturedAt:   winner.CapturedAt,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return schema.TrafficSeries{Points: points}
}
