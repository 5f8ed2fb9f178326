// Package contract provides interfaces and shared utilities for the ctmeta CLI's internal architecture.
package contract

import "github.com/huangsam/ctmeta/schema"

// LedgerManager defines the interface for managing the ingestion ledger.
// This allows the ledger layer to be mocked for testing.
type LedgerManager interface {
	GetLedgerStore() LedgerStore
}

// LedgerStore defines the interface for ingestion ledger storage.
type LedgerStore interface {
	// BeginRun records the start of a merge run and returns its identifier.
	BeginRun(storePath string, configParams map[string]any) (string, error)

	// RecordEntry records what a merge did with one ingested record.
	RecordEntry(runID, dedupKey, sourcePath string, action schema.MergeAction) error

	// EndRun stores the final counters of a merge run.
	EndRun(runID string, summary schema.MergeSummary) error

	// GetStatus returns the current state of the ledger.
	GetStatus() (schema.LedgerStatus, error)

	// GetAllRuns returns every recorded run, newest first.
	GetAllRuns() ([]schema.IngestRunRecord, error)

	// GetAllEntries returns every recorded entry in insertion order.
	GetAllEntries() ([]schema.IngestEntryRecord, error)

	// Clear removes all ledger rows.
	Clear() error

	// Close releases the underlying database.
	Close() error
}
