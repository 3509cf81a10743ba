package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/repotraffic/schema"
)

// State label constants.
const (
	NoDataValue      = "No data yet" // metric never observed
	EmptyValue       = "Empty"       // observed, zero rows
	HasDataValue     = "OK"          // series carries rows
	ProvisionalValue = "Provisional" // day may still be revised upstream
	ClosedValue      = "Closed"      // day finalized by the source
)

// Color variables for console output.
var (
	NoDataColor      = color.New(color.FgRed, color.Bold) // missing data deserves attention
	EmptyColor       = color.New(color.FgYellow)
	HasDataColor     = color.New(color.FgGreen)
	ProvisionalColor = color.New(color.FgYellow)
	ClosedColor      = color.New(color.FgCyan)
)

// GetPlainStateLabel returns a plain text label for a series state.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainStateLabel(state schema.SeriesState) string {
	switch state {
	case schema.NoDataYetState:
		return NoDataValue
	case schema.EmptyState:
		return EmptyValue
	default:
		return HasDataValue
	}
}

// GetColorStateLabel returns a colored label for console output (table).
// It uses GetPlainStateLabel to determine the string, and then applies
// the appropriate color.
func GetColorStateLabel(state schema.SeriesState) string {
	text := GetPlainStateLabel(state)

	switch state {
	case schema.NoDataYetState:
		return NoDataColor.Sprint(text)
	case schema.EmptyState:
		return EmptyColor.Sprint(text)
	default:
		return HasDataColor.Sprint(text)
	}
}

// GetClosureLabel returns the plain label for a traffic point's closure state.
func GetClosureLabel(provisional bool) string {
	if provisional {
		return ProvisionalValue
	}
	return ClosedValue
}

// GetColorClosureLabel returns the colored label for a traffic point's closure state.
func GetColorClosureLabel(provisional bool) string {
	if provisional {
		return ProvisionalColor.Sprint(ProvisionalValue)
	}
	return ClosedColor.Sprint(ClosedValue)
}

// SelectOutputFile returns the appropriate file handle for output, based
// on the provided file path. It falls back to os.Stdout for empty paths.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ParseBoolString parses yes/no style boolean flags.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on", "":
		return true, nil
	case "no", "false", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("expected yes/no/true/false/1/0, received %q", s)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetJournalDBFilePath returns the path to the SQLite DB file for the
// fold journal inside a ledger directory.
func GetJournalDBFilePath(ledgerDir string) string {
	return filepath.Join(ledgerDir, ".repotraffic_journal.db")
}
