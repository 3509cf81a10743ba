// Package core implements the reconciliation and aggregation engine:
// merging overlapping rolling-window traffic fragments, resampling raw
// star/fork events into daily counts, aggregating top-referrer and
// top-path snapshots, and assembling the renderer-facing report data.
//
// The engine is single-threaded and synchronous per invocation. It does
// no network I/O and never mutates fragment files; persistence is owned
// by the ledger package.
package core
