package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/schema"
	"github.com/olekukonko/tablewriter"
)

// statusListing is the JSON shape for the combined status output.
type statusListing struct {
	Ledger  schema.LedgerStatus  `json:"ledger"`
	Journal schema.JournalStatus `json:"journal"`
}

// PrintStatusResults outputs ledger and journal status, dispatching based on the output format configured.
func PrintStatusResults(ledger schema.LedgerStatus, journal schema.JournalStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, statusListing{Ledger: ledger, Journal: journal})
		}, "Wrote JSON status results")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"field", "value"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, row := range statusRows(ledger, journal) {
					if err := cw.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV status results")
	default:
		return printStatusTable(ledger, journal)
	}
}

// statusRows flattens both statuses into field/value pairs.
func statusRows(ledger schema.LedgerStatus, journal schema.JournalStatus) [][]string {
	rows := [][]string{
		{"ledger_version", strconv.Itoa(ledger.Version)},
		{"traffic_days", strconv.Itoa(ledger.TrafficDays)},
		{"star_days", strconv.Itoa(ledger.StarDays)},
		{"fork_days", strconv.Itoa(ledger.ForkDays)},
	}
	if ledger.TrafficDays > 0 {
		rows = append(rows,
			[]string{"traffic_start", schema.FormatDay(ledger.TrafficStart)},
			[]string{"traffic_end", schema.FormatDay(ledger.TrafficEnd)},
		)
	}
	rows = append(rows,
		[]string{"journal_backend", journal.Backend},
		[]string{"journal_connected", strconv.FormatBool(journal.Connected)},
		[]string{"folded_fragments", strconv.Itoa(journal.FoldedCount)},
	)
	if journal.FoldedCount > 0 {
		rows = append(rows, []string{"last_folded", journal.LastFoldedTime.Format(contract.DateTimeFormat)})
	}
	return rows
}

func printStatusTable(ledger schema.LedgerStatus, journal schema.JournalStatus) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Field", "Value"})

	if err := table.Bulk(statusRows(ledger, journal)); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Println("Status retrieved successfully")
	return nil
}
