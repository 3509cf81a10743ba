package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/schema"
)

// writeJSONResultsForReport marshals the schema.ReportData to JSON and writes it.
func writeJSONResultsForReport(w io.Writer, report schema.ReportData) error {
	return writeJSON(w, report)
}

// writeCSVResultsForReport writes the schema.ReportData to a CSV writer.
// The CSV is a single rectangular table with a record discriminator
// column, since the report spans series and ranking metrics.
func writeCSVResultsForReport(w io.Writer, report schema.ReportData) error {
	header := []string{
		"record",
		"state",
		"date",
		"subject",
		"views_total",
		"views_unique",
		"clones_total",
		"clones_unique",
		"count",
		"closure",
		"fragments",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		if err := writeTrafficRows(cw, report.Traffic); err != nil {
			return err
		}
		if err := writeEventRows(cw, "stars", report.Stars); err != nil {
			return err
		}
		if err := writeEventRows(cw, "forks", report.Forks); err != nil {
			return err
		}
		if err := writeTopListRows(cw, "referrer", report.Referrers); err != nil {
			return err
		}
		return writeTopListRows(cw, "path", report.Paths)
	})
}

func writeTrafficRows(w *csv.Writer, traffic schema.TrafficReport) error {
	state := contract.GetPlainStateLabel(traffic.State)
	if traffic.State != schema.HasDataState {
		return w.Write([]string{"traffic", state, "", "", "", "", "", "", "", "", ""})
	}
	for _, p := range traffic.Points {
		row := []string{
			"traffic",
			state,
			schema.FormatDay(p.Date),
			"",
			strconv.Itoa(p.ViewsTotal),
			strconv.Itoa(p.ViewsUnique),
			strconv.Itoa(p.ClonesTotal),
			strconv.Itoa(p.ClonesUnique),
			"",
			contract.GetClosureLabel(p.Provisional),
			"",
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeEventRows(w *csv.Writer, record string, events schema.EventReport) error {
	state := contract.GetPlainStateLabel(events.State)
	if events.State != schema.HasDataState {
		return w.Write([]string{record, state, "", "", "", "", "", "", "", "", ""})
	}
	for _, p := range events.Points {
		row := []string{
			record,
			state,
			schema.FormatDay(p.Date),
			"",
			"", "", "", "",
			strconv.Itoa(p.Count),
			"",
			"",
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeTopListRows(w *csv.Writer, record string, list schema.TopListReport) error {
	state := contract.GetPlainStateLabel(list.State)
	if list.State != schema.HasDataState {
		return w.Write([]string{record, state, "", "", "", "", "", "", "", "", ""})
	}
	for _, entry := range list.Entries {
		row := []string{
			record,
			state,
			"",
			entry.Subject,
			strconv.Itoa(entry.ViewsTotal),
			strconv.Itoa(entry.ViewsUnique),
			"", "",
			"",
			"",
			strconv.Itoa(entry.Fragments),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
