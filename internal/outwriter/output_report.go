package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintReportResults outputs the assembled report, dispatching based on the output format configured.
func PrintReportResults(report schema.ReportData, cfg *contract.Config) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForReport(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForReport(report, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable tables
		if err := printReportTables(report, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing report table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForReport handles opening the file and calling the JSON writer.
func printJSONResultsForReport(report schema.ReportData, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForReport(w, report)
	}, "Wrote JSON report results")
}

// printCSVResultsForReport handles opening the file and calling the CSV writer.
func printCSVResultsForReport(report schema.ReportData, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResultsForReport(w, report)
	}, "Wrote CSV report results")
}

// printReportTables prints one table section per metric, each preceded by
// a state line so empty and never-observed metrics stay distinguishable.
func printReportTables(report schema.ReportData, cfg *contract.Config, fmtFloat func(float64) string) error {
	if err := printTrafficTable(report.Traffic, cfg, fmtFloat); err != nil {
		return err
	}
	if err := printEventTable("Stargazers", report.Stars, cfg); err != nil {
		return err
	}
	if err := printEventTable("Forks", report.Forks, cfg); err != nil {
		return err
	}
	if err := printTopListTable("Top referrers", report.Referrers, cfg); err != nil {
		return err
	}
	if err := printTopListTable("Top paths", report.Paths, cfg); err != nil {
		return err
	}
	fmt.Printf("Report generated at %s. Ledger version: %d\n",
		report.GeneratedAt.Format(contract.DateTimeFormat), report.LedgerVersion)
	return nil
}

// stateLabel picks the colored or plain state label per config.
func stateLabel(state schema.SeriesState, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorStateLabel(state)
	}
	return contract.GetPlainStateLabel(state)
}

// closureLabel picks the colored or plain closure label per config.
func closureLabel(provisional bool, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorClosureLabel(provisional)
	}
	return contract.GetClosureLabel(provisional)
}

func printTrafficTable(traffic schema.TrafficReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	fmt.Printf("\nViews and clones [%s]\n", stateLabel(traffic.State, cfg))
	if traffic.State != schema.HasDataState {
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)

	// --- 1. Define Headers ---
	headers := []string{"Date", "Views", "Unique views", "Clones", "Unique clones", "Closure"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	for _, p := range traffic.Points {
		row := []string{
			schema.FormatDay(p.Date),
			fmt.Sprintf("%d", p.ViewsTotal),
			fmt.Sprintf("%d", p.ViewsUnique),
			fmt.Sprintf("%d", p.ClonesTotal),
			fmt.Sprintf("%d", p.ClonesUnique),
			closureLabel(p.Provisional, cfg),
		}
		data = append(data, row)
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	days := len(traffic.Points)
	fmt.Printf("Totals: %d views (%d unique), %d clones (%d unique) across %d days. Avg %s views/day. Scales: views=%s clones=%s\n",
		traffic.ViewsTotal, traffic.ViewsUnique, traffic.ClonesTotal, traffic.ClonesUnique,
		days, fmtFloat(float64(traffic.ViewsTotal)/float64(days)),
		traffic.ViewsScale, traffic.ClonesScale)
	return nil
}

func printEventTable(title string, events schema.EventReport, cfg *contract.Config) error {
	fmt.Printf("\n%s [%s]\n", title, stateLabel(events.State, cfg))
	if events.State != schema.HasDataState {
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Date", "Count"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range events.Points {
		data = append(data, []string{schema.FormatDay(p.Date), fmt.Sprintf("%d", p.Count)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Total: %d across %d active days. Scale: %s\n", events.Total, len(events.Points), events.Scale)
	return nil
}

func printTopListTable(title string, list schema.TopListReport, cfg *contract.Config) error {
	fmt.Printf("\n%s [%s]\n", title, stateLabel(list.State, cfg))
	if list.State != schema.HasDataState {
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Rank", "Subject", "Views", "Unique views", "Fragments"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTableSubjectWidth(cfg)
	var data [][]string
	for i, entry := range list.Entries {
		row := []string{
			fmt.Sprintf("%d", i+1),
			TruncateSubject(entry.Subject, maxWidth),
			fmt.Sprintf("%d", entry.ViewsTotal),
			fmt.Sprintf("%d", entry.ViewsUnique),
			fmt.Sprintf("%d", entry.Fragments),
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
