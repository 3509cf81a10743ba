package core

import (
	"sort"
	"time"

	"github.com/huangsam/repotraffic/schema"
)

// actorDay is the deduplication key for event resampling: a repeated
// notification for the same actor on the same calendar day must not
// double count.
type actorDay struct {
	actor string
	day   time.Time
}

// ResampleEvents converts raw timestamped star/fork events from any
// number of fragments into a daily count table, at most one row per
// calendar day. Days with zero events are gaps, not explicit zero rows.
// Calendar days are bucketed in loc (UTC when nil).
func ResampleEvents(fragments []schema.Fragment, loc *time.Location) schema.EventSeries {
	seen := make(map[actorDay]struct{})
	counts := make(map[time.Time]int)

	for _, frag := range fragments {
		for _, ev := range frag.Events {
			key := actorDay{actor: ev.Actor, day: schema.Day(ev.Timestamp, loc)}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			counts[key.day]++
		}
	}

	if len(counts) == 0 {
		return schema.EventSeries{}
	}

	points := make([]schema.DailyCount, 0, len(counts))
	for day, count := range counts {
		points = append(points, schema.DailyCount{Date: day, Count: count})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return schema.EventSeries{Points: points}
}
