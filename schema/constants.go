package schema

// Custom string types for type safety.
type (
	// MetricKind identifies which metric a fragment or series belongs to.
	MetricKind string

	// SeriesState discriminates "never observed" from "observed and empty"
	// from "has rows". Renderers must branch on this, not on row counts.
	SeriesState string

	// AxisScale represents the plotting scale chosen for a series window.
	AxisScale string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the fold journal.
	DatabaseBackend string
)

// All metric kinds captured by the fetch collaborator.
const (
	ViewsClonesKind MetricKind = "views-clones"
	StargazerKind   MetricKind = "stargazers"
	ForkKind        MetricKind = "forks"
	ReferrerKind    MetricKind = "referrers"
	PathKind        MetricKind = "paths"
)

// All per-metric series states.
const (
	// NoDataYetState means the metric was never observed: no fragments
	// and no prior aggregate exist.
	NoDataYetState SeriesState = "no-data-yet"

	// EmptyState means the metric was observed but produced zero rows,
	// e.g. a repository with zero stars.
	EmptyState SeriesState = "empty"

	// HasDataState means the series carries at least one row.
	HasDataState SeriesState = "has-data"
)

// All axis scales supported.
const (
	LinearScale AxisScale = "linear"
	LogScale    AxisScale = "log"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All journal backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllMetricKinds returns a list of all supported metric kinds.
var AllMetricKinds = []MetricKind{ViewsClonesKind, StargazerKind, ForkKind, ReferrerKind, PathKind}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid journal backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
