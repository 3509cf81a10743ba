package core

import (
	"sort"

	"github.com/huangsam/repotraffic/schema"
)

// AggregateTopList merges ranked top-N snapshots from multiple
// fragments into a single ranking scoped to the full observed period.
//
// Each fragment reports only its own top-N, so a subject missing from a
// fragment means "below that fragment's cut line", never zero. Summing
// across fragments would both overcount (overlapping windows) and
// undercount (absence read as zero); instead a subject's aggregate
// count is taken from the most complete covering fragment, i.e. the
// maximum it was ever listed with. The result is never lower than the
// subject's count in any fragment where it appeared.
func AggregateTopList(fragments []schema.Fragment) []schema.TopListEntry {
	bySubject := make(map[string]schema.TopListEntry)

	for _, frag := range fragments {
		for _, row := range frag.TopList {
			entry, ok := bySubject[row.Subject]
			if !ok {
				entry = schema.TopListEntry{Subject: row.Subject}
			}
			if row.ViewsTotal > entry.ViewsTotal {
				entry.ViewsTotal = row.ViewsTotal
			}
			if row.ViewsUnique > entry.ViewsUnique {
				entry.ViewsUnique = row.ViewsUnique
			}
			entry.Fragments++
			bySubject[row.Subject] = entry
		}
	}

	if len(bySubject) == 0 {
		return nil
	}

	entries := make([]schema.TopListEntry, 0, len(bySubject))
	for _, entry := range bySubject {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ViewsTotal != entries[j].ViewsTotal {
			return entries[i].ViewsTotal > entries[j].ViewsTotal
		}
		return entries[i].Subject < entries[j].Subject
	})
	return entries
}
