// Package journal is the durable record of which fragments have been
// folded into the aggregates and persisted. Pruning a fragment is only
// safe once the journal has seen it, so a crash between fold-in and
// persistence can never lose data.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL DSN parsing
	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// foldedTable is the journal table name.
const foldedTable = "repotraffic_folded_fragments"

// JournalImpl handles durable journal storage using various database
// backends.
type JournalImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.Journal = &JournalImpl{} // Compile-time check

// New initializes and returns a new Journal based on the backend type.
// The ledgerDir is used to place the default SQLite file next to the
// aggregates it protects.
func New(backend schema.DatabaseBackend, connStr, ledgerDir string) (contract.Journal, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetJournalDBFilePath(ledgerDir)
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite journal at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL journal: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=secret dbname=postgres
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL journal: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op journal for disabled bookkeeping
		return &JournalImpl{backend: backend, connStr: connStr}, nil

	default:
		return nil, fmt.Errorf("unsupported journal backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s journal. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if _, err := db.Exec(getCreateTableQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", foldedTable, err)
	}

	return &JournalImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				fragment_name VARCHAR(255) PRIMARY KEY,
				captured_at BIGINT NOT NULL,
				folded_at BIGINT NOT NULL,
				ledger_version INT NOT NULL
			);
		`, foldedTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				fragment_name TEXT PRIMARY KEY,
				captured_at BIGINT NOT NULL,
				folded_at BIGINT NOT NULL,
				ledger_version INTEGER NOT NULL
			);
		`, foldedTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				fragment_name TEXT PRIMARY KEY,
				captured_at INTEGER NOT NULL,
				folded_at INTEGER NOT NULL,
				ledger_version INTEGER NOT NULL
			);
		`, foldedTable)
	}
}

// getPlaceholders returns n parameter placeholders for the backend.
func (j *JournalImpl) getPlaceholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		if j.backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// MarkFolded records a fragment as folded and persisted. Re-marking an
// already journaled fragment updates its fold metadata, keeping the
// operation idempotent for retried runs.
func (j *JournalImpl) MarkFolded(name string, capturedAt time.Time, ledgerVersion int) error {
	if j.backend == schema.NoneBackend || j.db == nil {
		return nil
	}

	query := j.getUpsertQuery()
	_, err := j.db.Exec(query, name, capturedAt.Unix(), time.Now().Unix(), ledgerVersion)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (j *JournalImpl) getUpsertQuery() string {
	switch j.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (fragment_name, captured_at, folded_at, ledger_version) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE folded_at = new.folded_at, ledger_version = new.ledger_version`, foldedTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (fragment_name, captured_at, folded_at, ledger_version) VALUES ($1, $2, $3, $4)
			ON CONFLICT (fragment_name) DO UPDATE SET folded_at = EXCLUDED.folded_at, ledger_version = EXCLUDED.ledger_version`, foldedTable)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (fragment_name, captured_at, folded_at, ledger_version) VALUES (?, ?, ?, ?)`, foldedTable)
	}
}

// IsFolded reports whether a fragment name is recorded as folded.
func (j *JournalImpl) IsFolded(name string) (bool, error) {
	if j.backend == schema.NoneBackend || j.db == nil {
		return false, nil
	}

	placeholder := j.getPlaceholders(1)[0]
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE fragment_name = %s`, foldedTable, placeholder)
	var count int
	if err := j.db.QueryRow(query, name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// FoldedNames returns all fragment names recorded as folded, oldest
// capture first.
func (j *JournalImpl) FoldedNames() ([]string, error) {
	if j.backend == schema.NoneBackend || j.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT fragment_name FROM %s ORDER BY captured_at ASC`, foldedTable)
	rows, err := j.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Clear removes all journal entries.
func (j *JournalImpl) Clear() error {
	if j.backend == schema.NoneBackend || j.db == nil {
		return nil
	}
	_, err := j.db.Exec(fmt.Sprintf(`DELETE FROM %s`, foldedTable))
	return err
}

// Close closes the underlying DB connection.
func (j *JournalImpl) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// GetStatus returns status information about the journal.
func (j *JournalImpl) GetStatus() (schema.JournalStatus, error) {
	status := schema.JournalStatus{
		Backend:   string(j.backend),
		Connected: j.db != nil,
	}
	if j.backend == schema.NoneBackend || j.db == nil {
		return status, nil
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, foldedTable)
	if err := j.db.QueryRow(countQuery).Scan(&status.FoldedCount); err != nil {
		return status, fmt.Errorf("failed to count journal entries: %w", err)
	}
	if status.FoldedCount == 0 {
		return status, nil
	}

	lastQuery := fmt.Sprintf(`SELECT MAX(folded_at) FROM %s`, foldedTable)
	var lastTs int64
	if err := j.db.QueryRow(lastQuery).Scan(&lastTs); err != nil {
		return status, fmt.Errorf("failed to get last fold time: %w", err)
	}
	status.LastFoldedTime = time.Unix(lastTs, 0)
	return status, nil
}

// DatabaseName extracts the database name from the MySQL DSN, used for
// status display. Empty for other backends.
func (j *JournalImpl) DatabaseName() string {
	if j.backend != schema.MySQLBackend {
		return ""
	}
	cfg, err := mysql.ParseDSN(j.connStr)
	if err != nil {
		return ""
	}
	return cfg.DBName
}
