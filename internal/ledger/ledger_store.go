package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/schema"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for ingestion tracking.
const (
	ingestRunsTable    = "ctmeta_ingest_runs"
	ingestEntriesTable = "ctmeta_ingest_entries"
)

// LedgerStoreImpl implements the LedgerStore interface.
type LedgerStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	now     func() time.Time
}

var _ contract.LedgerStore = &LedgerStoreImpl{} // Compile-time check

// openDB opens and pings the database for a backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetLedgerDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}
	return db, nil
}

// NewLedgerStore creates a LedgerStore for the backend and brings its schema up to date.
// The none backend yields a store whose operations do nothing.
func NewLedgerStore(backend schema.DatabaseBackend, connStr string) (*LedgerStoreImpl, error) {
	if backend == schema.NoneBackend || backend == "" {
		return &LedgerStoreImpl{backend: schema.NoneBackend, now: time.Now}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// The migrator is not closed here since that would close db as well.
	m, err := newMigrator(db, backend)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrateUp(m); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &LedgerStoreImpl{db: db, backend: backend, now: time.Now}, nil
}

// disabled reports whether the store records nothing.
func (ls *LedgerStoreImpl) disabled() bool {
	return ls.backend == schema.NoneBackend || ls.db == nil
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func (ls *LedgerStoreImpl) rebind(query string) string {
	if ls.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BeginRun records the start of a merge run and returns its identifier.
func (ls *LedgerStoreImpl) BeginRun(storePath string, configParams map[string]any) (string, error) {
	if ls.disabled() {
		return "", nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}

	runID := uuid.NewString()
	query := ls.rebind(fmt.Sprintf(`INSERT INTO %s (run_id, start_time, store_path, config_params) VALUES (?, ?, ?, ?)`, ingestRunsTable))
	if _, err := ls.db.Exec(query, runID, ls.now().UnixMilli(), storePath, string(configJSON)); err != nil {
		return "", fmt.Errorf("failed to insert ingest run: %w", err)
	}
	return runID, nil
}

// RecordEntry records what a merge did with one ingested record.
func (ls *LedgerStoreImpl) RecordEntry(runID, dedupKey, sourcePath string, action schema.MergeAction) error {
	if ls.disabled() {
		return nil
	}

	query := ls.rebind(fmt.Sprintf(`INSERT INTO %s (run_id, dedup_key, source_path, action, ingest_time) VALUES (?, ?, ?, ?, ?)`, ingestEntriesTable))
	if _, err := ls.db.Exec(query, runID, dedupKey, sourcePath, string(action), ls.now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to insert ingest entry: %w", err)
	}
	return nil
}

// EndRun stores the final counters of a merge run.
func (ls *LedgerStoreImpl) EndRun(runID string, summary schema.MergeSummary) error {
	if ls.disabled() {
		return nil
	}

	query := ls.rebind(fmt.Sprintf(`UPDATE %s SET end_time = ?, files_scanned = ?, files_skipped = ?, records_in = ?, records_out = ? WHERE run_id = ?`, ingestRunsTable))
	result, err := ls.db.Exec(query, ls.now().UnixMilli(), summary.FilesScanned, summary.FilesSkipped, summary.RecordsRead, summary.TotalWritten, runID)
	if err != nil {
		return fmt.Errorf("failed to update ingest run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("ingest run %s not found", runID)
	}
	return nil
}

// GetStatus returns status information about the ledger.
func (ls *LedgerStoreImpl) GetStatus() (schema.LedgerStatus, error) {
	status := schema.LedgerStatus{
		Backend:    string(ls.backend),
		Connected:  ls.db != nil,
		TableSizes: make(map[string]int64),
	}
	if ls.disabled() {
		return status, nil
	}

	versionQuery := fmt.Sprintf("SELECT version FROM %s LIMIT 1", migrationsTable)
	var version int64
	if err := ls.db.QueryRow(versionQuery).Scan(&version); err == nil && version > 0 {
		status.SchemaVersion = uint(version)
	}

	if err := ls.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", ingestRunsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastStart int64
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time, records_out FROM %s ORDER BY start_time DESC, run_id DESC LIMIT 1", ingestRunsTable)
		if err := ls.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastStart, &status.LastRecordsOut); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = time.UnixMilli(lastStart)

		var oldestStart int64
		oldestRunQuery := fmt.Sprintf("SELECT MIN(start_time) FROM %s", ingestRunsTable)
		if err := ls.db.QueryRow(oldestRunQuery).Scan(&oldestStart); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = time.UnixMilli(oldestStart)
	}

	for _, table := range []string{ingestRunsTable, ingestEntriesTable} {
		var count int64
		if err := ls.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all ingest runs, newest first.
func (ls *LedgerStoreImpl) GetAllRuns() ([]schema.IngestRunRecord, error) {
	if ls.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, store_path, files_scanned, files_skipped,
    records_in, records_out, config_params FROM %s ORDER BY start_time DESC, run_id DESC`, ingestRunsTable)
	rows, err := ls.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingest runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.IngestRunRecord
	for rows.Next() {
		var record schema.IngestRunRecord
		var start int64
		var end sql.NullInt64
		var params sql.NullString
		if err := rows.Scan(&record.RunID, &start, &end, &record.StorePath, &record.FilesScanned,
			&record.FilesSkipped, &record.RecordsIn, &record.RecordsOut, &params); err != nil {
			return nil, fmt.Errorf("failed to scan ingest run: %w", err)
		}
		record.StartTime = time.UnixMilli(start)
		if end.Valid {
			t := time.UnixMilli(end.Int64)
			record.EndTime = &t
		}
		if params.Valid {
			record.ConfigParams = &params.String
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingest runs: %w", err)
	}
	return results, nil
}

// GetAllEntries retrieves all ingest entries in insertion order.
func (ls *LedgerStoreImpl) GetAllEntries() ([]schema.IngestEntryRecord, error) {
	if ls.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, dedup_key, source_path, action, ingest_time FROM %s ORDER BY entry_id`, ingestEntriesTable)
	rows, err := ls.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingest entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.IngestEntryRecord
	for rows.Next() {
		var record schema.IngestEntryRecord
		var action string
		var ingested int64
		if err := rows.Scan(&record.RunID, &record.DedupKey, &record.SourcePath, &action, &ingested); err != nil {
			return nil, fmt.Errorf("failed to scan ingest entry: %w", err)
		}
		record.Action = schema.MergeAction(action)
		record.IngestTime = time.UnixMilli(ingested)
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingest entries: %w", err)
	}
	return results, nil
}

// Clear removes all ledger rows while keeping the schema.
func (ls *LedgerStoreImpl) Clear() error {
	if ls.disabled() {
		return nil
	}
	for _, table := range []string{ingestEntriesTable, ingestRunsTable} {
		if _, err := ls.db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (ls *LedgerStoreImpl) Close() error {
	if ls.db != nil {
		return ls.db.Close()
	}
	return nil
}
