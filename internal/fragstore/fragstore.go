// Package fragstore discovers and parses raw snapshot fragment files.
//
// Fragments are produced by the fetch collaborator, one CSV per metric
// per capture, named with the capture timestamp:
//
//	2021-01-04_120843_views_clones_series_fragment.csv
//	2021-01-04_120843_top_referrers_snapshot.csv
//	2021-01-04_120843_top_paths_snapshot.csv
//	2021-01-04_120843_stargazer_events_fragment.csv
//	2021-01-04_120843_fork_events_fragment.csv
//
// Malformed or unreadable files are skipped with a warning; a directory
// with no fragments at all is a valid, expected state.
package fragstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/schema"
)

// captureTimeFormat is the filename timestamp layout used by the fetch
// collaborator. Capture times are aligned to UTC.
const captureTimeFormat = "2006-01-02_150405"

// Filename suffixes mapped to metric kinds.
var kindSuffixes = map[string]schema.MetricKind{
	"_views_clones_series_fragment.csv": schema.ViewsClonesKind,
	"_top_referrers_snapshot.csv":       schema.ReferrerKind,
	"_top_paths_snapshot.csv":           schema.PathKind,
	"_stargazer_events_fragment.csv":    schema.StargazerKind,
	"_fork_events_fragment.csv":         schema.ForkKind,
}

// Scan discovers and parses all fragment files in dir, sorted by capture
// time ascending. Files that do not match the fragment naming convention
// are ignored silently; files that match but cannot be parsed are
// skipped with a warning. An empty or missing directory yields zero
// fragments and no error.
func Scan(dir string) ([]schema.Fragment, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read fragments directory %q: %w", dir, err)
	}

	var fragments []schema.Fragment
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		kind, capturedAt, ok := classify(entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		frag, err := parseFragment(path, kind, capturedAt)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("skipping malformed fragment %s", entry.Name()), err)
			continue
		}
		fragments = append(fragments, frag)
	}

	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].CapturedAt.Before(fragments[j].CapturedAt)
	})
	return fragments, nil
}

// ByKind filters a fragment list down to a single metric kind,
// preserving capture order.
func ByKind(fragments []schema.Fragment, kind schema.MetricKind) []schema.Fragment {
	var out []schema.Fragment
	for _, f := range fragments {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// classify derives the metric kind and capture time from a fragment
// filename. Returns ok=false for files that are not fragments.
func classify(name string) (schema.MetricKind, time.Time, bool) {
	for suffix, kind := range kindSuffixes {
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		stamp := strings.TrimSuffix(name, suffix)
		capturedAt, err := time.ParseInLocation(captureTimeFormat, stamp, time.UTC)
		if err != nil {
			return "", time.Time{}, false
		}
		return kind, capturedAt, true
	}
	return "", time.Time{}, false
}
