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
	"github.com/olekukonko/tablewriter/tw"
)

// fragmentListing is the JSON shape for one discovered fragment.
type fragmentListing struct {
	Name       string            `json:"name"`
	Kind       schema.MetricKind `json:"kind"`
	CapturedAt string            `json:"captured_at"`
	Rows       int               `json:"rows"`
	Folded     bool              `json:"folded"`
}

// PrintFragmentResults outputs the fragment inventory, dispatching based on the output format configured.
// The folded map marks fragments the journal records as durably folded.
func PrintFragmentResults(fragments []schema.Fragment, folded map[string]bool, cfg *contract.Config) error {
	listings := make([]fragmentListing, 0, len(fragments))
	for _, frag := range fragments {
		listings = append(listings, fragmentListing{
			Name:       frag.Name(),
			Kind:       frag.Kind,
			CapturedAt: frag.CapturedAt.Format(contract.DateTimeFormat),
			Rows:       fragmentRows(frag),
			Folded:     folded[frag.Name()],
		})
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, listings)
		}, "Wrote JSON fragment results")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"name", "kind", "captured_at", "rows", "folded"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, l := range listings {
					row := []string{l.Name, string(l.Kind), l.CapturedAt, strconv.Itoa(l.Rows), strconv.FormatBool(l.Folded)}
					if err := cw.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV fragment results")
	default:
		return printFragmentTable(listings)
	}
}

// fragmentRows counts the data rows a fragment carries, whatever its kind.
func fragmentRows(frag schema.Fragment) int {
	return len(frag.Traffic) + len(frag.Events) + len(frag.TopList)
}

func printFragmentTable(listings []fragmentListing) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Name", "Kind", "Captured", "Rows", "Folded"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, l := range listings {
		foldedStr := "no"
		if l.Folded {
			foldedStr = "yes"
		}
		data = append(data, []string{l.Name, string(l.Kind), l.CapturedAt, strconv.Itoa(l.Rows), foldedStr})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Discovered %d fragments\n", len(listings))
	return nil
}
