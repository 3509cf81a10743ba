package core

import (
	"errors"
	"fmt"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/internal/fragstore"
	"github.com/huangsam/repotraffic/internal/ledger"
	"github.com/huangsam/repotraffic/schema"
)

// ErrNoTrafficData means the mandatory views/clones metric has no data
// source at all: no fragments were discovered and no prior aggregate
// exists. The report cannot be meaningfully generated, so the caller
// must exit non-zero.
var ErrNoTrafficData = errors.New("no data for views/clones: no fragments discovered and no aggregate exists")

// PipelineResult carries the outcome of one reconciliation run.
type PipelineResult struct {
	Report    schema.ReportData
	Ledger    schema.Ledger
	Fragments []schema.Fragment

	// Folded lists the fragments recorded in the journal this run,
	// i.e. now safe to prune.
	Folded []schema.Fragment
}

// ExecuteReport runs the full pipeline: scan fragments, load the
// ledger, merge/resample/aggregate, fold in, persist, journal, and
// assemble the report data.
//
// The run is safe under at-least-once semantics: fold-in is idempotent,
// fragments are only journaled after persistence succeeds, and a crash
// at any stage leaves un-journaled fragments to be re-merged harmlessly
// on the next run. Zero new fragments with a non-empty ledger re-emits
// the report from existing state.
func ExecuteReport(cfg *contract.Config, jnl contract.Journal) (*PipelineResult, error) {
	fragments, err := fragstore.Scan(cfg.FragmentsDir)
	if err != nil {
		return nil, err
	}

	led, presence, err := ledger.Load(cfg.LedgerDir)
	if err != nil {
		// Includes CorruptAggregateError: merging onto unknown state
		// would risk silent data loss.
		return nil, err
	}

	trafficFrags := fragstore.ByKind(fragments, schema.ViewsClonesKind)
	starFrags := fragstore.ByKind(fragments, schema.StargazerKind)
	forkFrags := fragstore.ByKind(fragments, schema.ForkKind)
	referrerFrags := fragstore.ByKind(fragments, schema.ReferrerKind)
	pathFrags := fragstore.ByKind(fragments, schema.PathKind)

	merged := MergeTraffic(trafficFrags)
	if len(merged.Points) == 0 && !led.HasTraffic() {
		return nil, ErrNoTrafficData
	}

	stars := ResampleEvents(starFrags, cfg.Location)
	forks := ResampleEvents(forkFrags, cfg.Location)

	folded := ledger.FoldIn(led, merged, stars, forks)
	if err := ledger.Persist(cfg.LedgerDir, folded); err != nil {
		return nil, fmt.Errorf("failed to persist aggregates: %w", err)
	}

	// Only after the write succeeded may fragments be recorded as
	// folded; a crash between fold-in and persistence must leave them
	// eligible for re-merge.
	var journaled []schema.Fragment
	for _, frag := range fragments {
		if err := jnl.MarkFolded(frag.Name(), frag.CapturedAt, folded.Version); err != nil {
			contract.LogWarn(fmt.Sprintf("failed to journal fragment %s", frag.Name()), err)
			continue
		}
		journaled = append(journaled, frag)
	}

	obs := Observed{
		Traffic:   len(trafficFrags) > 0 || presence.Traffic,
		Stars:     len(starFrags) > 0 || presence.Stars,
		Forks:     len(forkFrags) > 0 || presence.Forks,
		Referrers: len(referrerFrags) > 0,
		Paths:     len(pathFrags) > 0,
	}

	report := AssembleReport(
		folded,
		AggregateTopList(referrerFrags),
		AggregateTopList(pathFrags),
		obs,
		cfg,
	)

	return &PipelineResult{
		Report:    report,
		Ledger:    folded,
		Fragments: fragments,
		Folded:    journaled,
	}, nil
}
