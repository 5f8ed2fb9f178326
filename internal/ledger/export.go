package ledger

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/internal/parquet"
)

// Suffixes appended to the export prefix for each ledger table.
const (
	RunsFileSuffix    = ".ingest_runs.parquet"
	EntriesFileSuffix = ".ingest_entries.parquet"
)

// ExportLedger writes the ledger runs and entries to two Parquet files named
// after outputFile and reports progress to w.
func ExportLedger(store contract.LedgerStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("ledger is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get ledger status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no ledger data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve ingest runs: %w", err)
	}
	entries, err := store.GetAllEntries()
	if err != nil {
		return fmt.Errorf("failed to retrieve ingest entries: %w", err)
	}

	runsFile := outputFile + RunsFileSuffix
	if err := parquet.WriteIngestRunsParquet(parquet.ConvertIngestRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write ingest runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ingest runs to: %s\n", len(runs), runsFile)

	entriesFile := outputFile + EntriesFileSuffix
	if err := parquet.WriteIngestEntriesParquet(parquet.ConvertIngestEntryRecords(entries), entriesFile); err != nil {
		return fmt.Errorf("failed to write ingest entries: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ingest entries to: %s\n", len(entries), entriesFile)

	return nil
}
