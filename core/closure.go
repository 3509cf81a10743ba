package core

import (
	"time"

	"github.com/huangsam/repotraffic/schema"
)

// ChoiceReason explains why a candidate won a same-day conflict.
type ChoiceReason string

// All choice reasons produced by ChooseDaily.
const (
	// ReasonOnlyCandidate means a single fragment reported the day.
	ReasonOnlyCandidate ChoiceReason = "only-candidate"

	// ReasonInterior means the day sat strictly inside the winning
	// fragment's window, so the source had already closed it out.
	ReasonInterior ChoiceReason = "interior"

	// ReasonMostRecentEdge means every candidate sat at a window edge
	// and the most recently captured one was kept.
	ReasonMostRecentEdge ChoiceReason = "most-recent-edge"
)

// Candidate is one fragment's record for a given calendar day, together
// with where that day sat inside the fragment's window.
type Candidate struct {
	Row schema.TrafficRow

	// CapturedAt is the capture time of the owning fragment.
	CapturedAt time.Time

	// EdgeDistance is the number of days between this row and the
	// nearest boundary of its fragment's window. Zero means the row sat
	// at an edge, where the source may still revise the count.
	EdgeDistance int
}

// Provisional reports whether the candidate's day may still change
// upstream: edge rows are not yet closed out by the source.
func (c Candidate) Provisional() bool {
	return c.EdgeDistance == 0
}

// ChooseDaily resolves conflicting same-day records from overlapping
// fragments. The winner is the candidate whose day sits deepest inside
// its fragment's window; capture recency breaks ties, so identical
// values resolve to the most recently captured record. With three or
// more covering fragments this reduces to a lexicographic max over
// (edge distance, capture time), which is deterministic and matches the
// two-fragment behavior.
//
// This is a pure function so the policy can be unit-tested without any
// file I/O. It panics on an empty candidate list; callers only invoke
// it for days that at least one fragment reported.
func ChooseDaily(candidates []Candidate) (Candidate, ChoiceReason) {
	if len(candidates) == 0 {
		panic("ChooseDaily: no candidates")
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.EdgeDistance > best.EdgeDistance {
			best = c
			continue
		}
		if c.EdgeDistance == best.EdgeDistance && c.CapturedAt.After(best.CapturedAt) {
			best = c
		}
	}

	switch {
	case len(candidates) == 1:
		return best, ReasonOnlyCandidate
	case best.EdgeDistance > 0:
		return best, ReasonInterior
	default:
		return best, ReasonMostRecentEdge
	}
}
