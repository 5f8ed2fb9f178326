package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/internal/ledger"
	"github.com/huangsam/ctmeta/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ledgerConfig loads only the ledger settings so that ledger commands work
// without a valid store, roster or output configuration.
func ledgerConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Handle empty backend as NoneBackend
	backend := schema.DatabaseBackend(viper.GetString("ledger-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid ledger backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("ledger-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.LedgerBackend = backend
	cfg.LedgerDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// ledgerSetupWrapper loads the ledger settings and opens the ledger.
func ledgerSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := ledgerConfig(); err != nil {
		return err
	}
	if err := ledger.InitLedger(cfg.LedgerBackend, cfg.LedgerDBConnect); err != nil {
		return fmt.Errorf("failed to initialize ledger: %w", err)
	}
	return nil
}

// ledgerMigrateSetupWrapper loads the ledger settings without creating tables,
// allowing migrations to run on a fresh database.
func ledgerMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return ledgerConfig()
}

// ledgerDBFilePath returns the SQLite file used by the ledger.
func ledgerDBFilePath() string {
	if cfg.LedgerBackend == schema.SQLiteBackend && cfg.LedgerDBConnect != "" {
		return cfg.LedgerDBConnect
	}
	return contract.GetLedgerDBFilePath()
}

// ledgerCmd focused on ingestion ledger management.
//
// Note: Ledger subcommands use minimal initialization (ledgerConfig) instead of
// the full sharedSetup used by the store commands.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Manage the ingestion ledger of merge runs",
	Long: `Manage the ledger that records every merge run and what it did with each record.

A merge run with --ledger-backend set writes one run row with its counters and
one entry per ingested record (its dedup key, source file and whether it was
inserted or replaced).

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show ledger statistics and connection info
  clear   - Remove all ledger data
  export  - Export runs and entries to Parquet files
  migrate - Run database schema migrations

Examples:
  # Check ledger status
  ctmeta ledger status --ledger-backend sqlite

  # Export for analysis in pandas/DuckDB
  ctmeta ledger export --ledger-backend sqlite --output-file ledger`,
}

// ledgerStatusCmd shows ledger status.
var ledgerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display ledger statistics and connection details",
	Long: `Show the ledger backend, connection state, schema version, number of
recorded runs, the latest run and the size of each ledger table.

Examples:
  ctmeta ledger status --ledger-backend sqlite`,
	PreRunE: ledgerSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := ledger.Manager.GetLedgerStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get ledger status", err)
		}
		ledger.PrintLedgerStatus(os.Stdout, status)
	},
}

// ledgerClearCmd clears the ledger.
var ledgerClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all ledger data",
	Long: `Delete all recorded merge runs and entries.

For SQLite the database file is removed. For MySQL and PostgreSQL the ledger
tables are dropped and recreated by the next merge.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  ctmeta ledger export --ledger-backend sqlite --output-file backup
  ctmeta ledger clear --ledger-backend sqlite`,
	PreRunE: ledgerMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := ledger.ClearLedger(cfg.LedgerBackend, ledgerDBFilePath(), cfg.LedgerDBConnect); err != nil {
			contract.LogFatal("Failed to clear ledger", err)
		}
		fmt.Println("Ledger cleared successfully.")
	},
}

// ledgerExportCmd exports ledger data to Parquet files.
var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export merge runs and entries to Parquet",
	Long: `Export the ledger to two Parquet files named after --output-file:

  <output-file>.ingest_runs.parquet     one row per merge run
  <output-file>.ingest_entries.parquet  one row per ingested record

Requires: --output-file parameter

Examples:
  ctmeta ledger export --ledger-backend sqlite --output-file ledger
  duckdb -c "SELECT action, COUNT(*) FROM read_parquet('ledger.ingest_entries.parquet') GROUP BY 1"`,
	PreRunE: ledgerSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := ledger.ExportLedger(ledger.Manager.GetLedgerStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export ledger", err)
		}
	},
}

// ledgerMigrateCmd runs database migrations for the ledger.
var ledgerMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the ingestion ledger.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  ctmeta ledger migrate --ledger-backend sqlite

  # Rollback to initial state
  ctmeta ledger migrate --ledger-backend sqlite --target-version 0`,
	PreRunE: ledgerMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		msg, err := ledger.MigrateLedger(cfg.LedgerBackend, cfg.LedgerDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(msg)
	},
}
