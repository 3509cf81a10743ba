// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/repotraffic/schema"
)

// Journal defines the interface for the durable fold journal. The
// journal records which fragments have been folded into the aggregate
// AND persisted, so pruning can never outrun persistence. It allows the
// pipeline to be tested without a real database.
type Journal interface {
	// MarkFolded records that a fragment was folded into the ledger and
	// that the resulting ledger version was durably persisted.
	MarkFolded(name string, capturedAt time.Time, ledgerVersion int) error

	// IsFolded reports whether a fragment name is recorded as folded.
	IsFolded(name string) (bool, error)

	// FoldedNames returns all fragment names recorded as folded.
	FoldedNames() ([]string, error)

	// GetStatus returns status information about the journal.
	GetStatus() (schema.JournalStatus, error)

	// Clear removes all journal entries.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}
