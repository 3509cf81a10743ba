package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/repotraffic/schema"
)

// Default values for configuration.
const (
	// DefaultLedgerDir is where aggregate files and the fold journal live.
	DefaultLedgerDir = "traffic-data"

	// DefaultLogScaleRatio is the peak-to-median ratio above which a
	// series window is plotted on a semi-logarithmic axis. The exact
	// value is policy, not ground truth; override via --log-scale-ratio.
	DefaultLogScaleRatio = 30.0

	// DefaultPrecision is the decimal precision for numeric output.
	DefaultPrecision = 1

	// RollingWindowDays is the maximum span of a single fragment, bounded
	// by the upstream source's rolling window.
	RollingWindowDays = 14
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a reconciliation run.
// This struct remains the "final, validated" config.
type Config struct {
	FragmentsDir string
	LedgerDir    string

	Output     schema.OutputMode
	OutputFile string
	Precision  int

	// LogScaleRatio is the peak/median threshold for choosing a log axis.
	LogScaleRatio float64

	// Location is the timezone used to bucket event timestamps into
	// calendar days.
	Location *time.Location

	JournalBackend   schema.DatabaseBackend
	JournalDBConnect string // Please use env var as this is plaintext

	UseColors bool
	Width     int // Terminal width override (0 = auto-detect)
}

// Clone returns a shallow copy of the config, so per-request overrides
// never leak into the base configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	FragmentsDirStr string

	LedgerDir        string  `mapstructure:"ledger-dir"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Precision        int     `mapstructure:"precision"`
	LogScaleRatio    float64 `mapstructure:"log-scale-ratio"`
	Timezone         string  `mapstructure:"timezone"`
	JournalBackend   string  `mapstructure:"journal-backend"`
	JournalDBConnect string  `mapstructure:"journal-db-connect"`
	Color            string  `mapstructure:"color"`
	Width            int     `mapstructure:"width"`
}

// ProcessAndValidate performs all parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimezone(cfg, input); err != nil {
		return err
	}
	if err := resolveDirectories(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 0 || input.Precision > 2 {
		return fmt.Errorf("precision must be between 0 and 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	if input.LogScaleRatio <= 1 {
		return fmt.Errorf("log-scale-ratio must be greater than 1 (received %g)", input.LogScaleRatio)
	}
	cfg.LogScaleRatio = input.LogScaleRatio

	// --- Journal Backend Validation ---
	cfg.JournalBackend = schema.DatabaseBackend(strings.ToLower(input.JournalBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.JournalBackend]; !ok {
		return fmt.Errorf("invalid journal backend '%s'. must be sqlite, mysql, postgresql, none", input.JournalBackend)
	}
	cfg.JournalDBConnect = input.JournalDBConnect
	if err := ValidateDatabaseConnectionString(cfg.JournalBackend, cfg.JournalDBConnect); err != nil {
		return err
	}

	return nil
}

// processTimezone resolves the calendar-day bucketing location.
func processTimezone(cfg *Config, input *ConfigRawInput) error {
	if input.Timezone == "" || strings.EqualFold(input.Timezone, "UTC") {
		cfg.Location = time.UTC
		return nil
	}
	loc, err := time.LoadLocation(input.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", input.Timezone, err)
	}
	cfg.Location = loc
	return nil
}

// resolveDirectories resolves the fragments and ledger directories.
// The fragments directory must exist when provided; the ledger directory
// is created on demand by the ledger itself.
func resolveDirectories(cfg *Config, input *ConfigRawInput) error {
	fragmentsDir := input.FragmentsDirStr
	if fragmentsDir != "" {
		abs, err := filepath.Abs(fragmentsDir)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("fragments directory %q is not accessible: %w", fragmentsDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("fragments path %q is not a directory", fragmentsDir)
		}
		fragmentsDir = abs
	}
	cfg.FragmentsDir = fragmentsDir

	ledgerDir := input.LedgerDir
	if ledgerDir == "" {
		ledgerDir = DefaultLedgerDir
	}
	abs, err := filepath.Abs(ledgerDir)
	if err != nil {
		return err
	}
	cfg.LedgerDir = abs
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("journal-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("journal-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
