// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API
// for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints the assembled report data using the configured output format.
func (ow *OutWriter) WriteReport(report schema.ReportData, cfg *contract.Config) error {
	return PrintReportResults(report, cfg)
}

// WriteFragments prints the fragment inventory using the configured output format.
func (ow *OutWriter) WriteFragments(fragments []schema.Fragment, folded map[string]bool, cfg *contract.Config) error {
	return PrintFragmentResults(fragments, folded, cfg)
}

// WriteStatus prints ledger and journal status using the configured output format.
func (ow *OutWriter) WriteStatus(ledger schema.LedgerStatus, journal schema.JournalStatus, cfg *contract.Config) error {
	return PrintStatusResults(ledger, journal, cfg)
}

// GetMaxTableSubjectWidth calculates the maximum width for referrer and
// path subjects in table output based on terminal width.
func GetMaxTableSubjectWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for rank, views, unique and fragment columns plus
	// table borders, separators and padding.
	available := termWidth - 45
	if available < 15 {
		// Minimum reasonable subject width
		return 15
	}
	if available > 70 {
		// Maximum subject width to prevent overly long URLs
		return 70
	}
	return available
}

// TruncateSubject shortens a referrer or path subject for table output,
// preserving the leading portion which carries the host or path root.
func TruncateSubject(subject string, maxWidth int) string {
	if len(subject) <= maxWidth {
		return subject
	}
	if maxWidth <= 3 {
		return subject[:maxWidth]
	}
	return subject[:maxWidth-3] + "..."
}
