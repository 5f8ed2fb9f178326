package schema

import "time"

// LedgerStatus represents the status of the ingestion ledger.
type LedgerStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	SchemaVersion  uint             `json:"schema_version"`
	TotalRuns      int              `json:"total_runs"`
	LastRunID      string           `json:"last_run_id"`
	LastRunTime    time.Time        `json:"last_run_time"`
	OldestRunTime  time.Time        `json:"oldest_run_time"`
	LastRecordsOut int              `json:"last_records_out"` // store size after the latest run
	TableSizes     map[string]int64 `json:"table_sizes"`
}

// IngestRunRecord represents a row from the ctmeta_ingest_runs table.
type IngestRunRecord struct {
	RunID        string
	StartTime    time.Time
	EndTime      *time.Time
	StorePath    string
	FilesScanned int32
	FilesSkipped int32
	RecordsIn    int32
	RecordsOut   int32
	ConfigParams *string
}

// IngestEntryRecord represents a row from the ctmeta_ingest_entries table.
type IngestEntryRecord struct {
	RunID      string
	DedupKey   string
	SourcePath string
	Action     MergeAction
	IngestTime time.Time
}
