package core

import (
	"sort"
	"time"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/schema"
)

// Observed records which metrics had any data source at all this run:
// either freshly discovered fragments or a pre-existing aggregate file.
// It drives the no-data-yet vs empty distinction in the report.
type Observed struct {
	Traffic   bool
	Stars     bool
	Forks     bool
	Referrers bool
	Paths     bool
}

// AssembleReport computes the presentation-ready structures from the
// ledger's current series plus the per-run top lists. It performs no
// rendering; the external renderer branches on each metric's state.
func AssembleReport(led schema.Ledger, referrers, paths []schema.TopListEntry, obs Observed, cfg *contract.Config) schema.ReportData {
	trafficWindow := trafficWindow(led.Traffic)
	eventWindow := eventWindow(led.Stars, led.Forks, trafficWindow)

	report := schema.ReportData{
		GeneratedAt:   time.Now().UTC(),
		LedgerVersion: led.Version,
		Traffic:       assembleTraffic(led.Traffic, obs.Traffic, trafficWindow, cfg),
		Stars:         assembleEvents(schema.StargazerKind, led.Stars, obs.Stars, eventWindow, cfg),
		Forks:         assembleEvents(schema.ForkKind, led.Forks, obs.Forks, eventWindow, cfg),
		Referrers:     assembleTopList(schema.ReferrerKind, referrers, obs.Referrers),
		Paths:         assembleTopList(schema.PathKind, paths, obs.Paths),
	}
	return report
}

// seriesState maps row presence plus observation to the tagged state.
func seriesState(hasRows, observed bool) schema.SeriesState {
	switch {
	case hasRows:
		return schema.HasDataState
	case observed:
		return schema.EmptyState
	default:
		return schema.NoDataYetState
	}
}

func assembleTraffic(series schema.TrafficSeries, observed bool, window schema.ReportWindow, cfg *contract.Config) schema.TrafficReport {
	report := schema.TrafficReport{
		State:       seriesState(len(series.Points) > 0, observed),
		Window:      window,
		ViewsScale:  schema.LinearScale,
		ClonesScale: schema.LinearScale,
	}
	if report.State != schema.HasDataState {
		return report
	}

	report.Points = series.Points
	views := make([]int, len(series.Points))
	clones := make([]int, len(series.Points))
	for i, p := range series.Points {
		report.ViewsTotal += p.ViewsTotal
		report.ViewsUnique += p.ViewsUnique
		report.ClonesTotal += p.ClonesTotal
		report.ClonesUnique += p.ClonesUnique
		views[i] = p.ViewsTotal
		clones[i] = p.ClonesTotal
	}
	report.ViewsScale = DecideScale(views, cfg.LogScaleRatio)
	report.ClonesScale = DecideScale(clones, cfg.LogScaleRatio)
	return report
}

func assembleEvents(kind schema.MetricKind, series schema.EventSeries, observed bool, window schema.ReportWindow, cfg *contract.Config) schema.EventReport {
	report := schema.EventReport{
		Metric: kind,
		State:  seriesState(len(series.Points) > 0, observed),
		Scale:  schema.LinearScale,
	}
	if report.State != schema.HasDataState {
		return report
	}

	report.Points = series.Points
	report.Total = series.Total()
	report.Window = window
	counts := make([]int, len(series.Points))
	for i, p := range series.Points {
		counts[i] = p.Count
	}
	report.Scale = DecideScale(counts, cfg.LogScaleRatio)
	return report
}

func assembleTopList(kind schema.MetricKind, entries []schema.TopListEntry, observed bool) schema.TopListReport {
	report := schema.TopListReport{
		Metric: kind,
		State:  seriesState(len(entries) > 0, observed),
	}
	if report.State == schema.HasDataState {
		report.Entries = entries
	}
	return report
}

// trafficWindow is the plotting window of the views/clones series.
func trafficWindow(series schema.TrafficSeries) schema.ReportWindow {
	if len(series.Points) == 0 {
		return schema.ReportWindow{}
	}
	return schema.ReportWindow{
		Start: series.Points[0].Date,
		End:   series.Points[len(series.Points)-1].Date,
	}
}

// eventWindow is the shared stars/forks plotting window. It matches the
// traffic window when event history began at or after data collection
// started; when events predate the first traffic day the window extends
// further into the past so early history is not cut off.
func eventWindow(stars, forks schema.EventSeries, traffic schema.ReportWindow) schema.ReportWindow {
	window := traffic
	for _, series := range []schema.EventSeries{stars, forks} {
		if len(series.Points) == 0 {
			continue
		}
		first := series.Points[0].Date
		last := series.Points[len(series.Points)-1].Date
		if window.IsZero() {
			window = schema.ReportWindow{Start: first, End: last}
			continue
		}
		if first.Before(window.Start) {
			window.Start = first
		}
		if last.After(window.End) {
			window.End = last
		}
	}
	return window
}

// DecideScale chooses linear or semi-logarithmic plotting for a series
// window. A log axis is used when the window's peak exceeds the median
// non-zero value by more than ratio, so spike events do not flatten
// baseline variation to near-zero on a linear axis.
func DecideScale(values []int, ratio float64) schema.AxisScale {
	var nonZero []int
	peak := 0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if v > 0 {
			nonZero = append(nonZero, v)
		}
	}
	if len(nonZero) == 0 {
		return schema.LinearScale
	}

	sort.Ints(nonZero)
	median := float64(nonZero[len(nonZero)/2])
	if len(nonZero)%2 == 0 {
		median = (float64(nonZero[len(nonZero)/2-1]) + float64(nonZero[len(nonZero)/2])) / 2
	}
	if median == 0 {
		return schema.LinearScale
	}

	if float64(peak)/median > ratio {
		return schema.LogScale
	}
	return schema.LinearScale
}
