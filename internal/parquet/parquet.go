// Package parquet provides data structures and functions for exporting the
// metadata store and the ingestion ledger to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/ctmeta/schema"
	"github.com/parquet-go/parquet-go"
)

// IngestRun represents a single merge run recorded in the ledger.
// This struct maps to the ctmeta_ingest_runs database table.
type IngestRun struct {
	// RunID is the unique identifier for this run
	RunID string `parquet:"run_id,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	StorePath    string `parquet:"store_path,snappy"`
	FilesScanned int32  `parquet:"files_scanned,snappy"`
	FilesSkipped int32  `parquet:"files_skipped,snappy"`
	RecordsIn    int32  `parquet:"records_in,snappy"`
	RecordsOut   int32  `parquet:"records_out,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// IngestEntry represents what one merge run did with one record.
// This struct maps to the ctmeta_ingest_entries database table.
type IngestEntry struct {
	RunID      string    `parquet:"run_id,snappy"`
	DedupKey   string    `parquet:"dedup_key,snappy"`
	SourcePath string    `parquet:"source_path,snappy"`
	Action     string    `parquet:"action,snappy"`
	IngestTime time.Time `parquet:"ingest_time,snappy"`
}

// FlatRecord is one projected store record.
type FlatRecord struct {
	DedupKey   string `parquet:"dedup_key,snappy"`
	SourcePath string `parquet:"source_path,snappy"`

	// Identity is the attributed user, empty when no roster folder matched
	Identity string `parquet:"identity,snappy"`

	// Fields holds the flattened record as a JSON object of column to cell text
	Fields string `parquet:"fields,snappy"`
}

// WriteRows writes rows of any tagged struct type to w.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile writes rows to a new file at outputPath.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteIngestRunsParquet writes ledger runs to a Parquet file.
func WriteIngestRunsParquet(data []IngestRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteIngestEntriesParquet writes ledger entries to a Parquet file.
func WriteIngestEntriesParquet(data []IngestEntry, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertIngestRunRecords converts schema.IngestRunRecord to IngestRun for Parquet export.
func ConvertIngestRunRecords(records []schema.IngestRunRecord) []IngestRun {
	result := make([]IngestRun, len(records))
	for i, record := range records {
		result[i] = IngestRun{
			RunID:        record.RunID,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			StorePath:    record.StorePath,
			FilesScanned: record.FilesScanned,
			FilesSkipped: record.FilesSkipped,
			RecordsIn:    record.RecordsIn,
			RecordsOut:   record.RecordsOut,
			ConfigParams: record.ConfigParams,
		}
	}
	return result
}

// ConvertIngestEntryRecords converts schema.IngestEntryRecord to IngestEntry for Parquet export.
func ConvertIngestEntryRecords(records []schema.IngestEntryRecord) []IngestEntry {
	result := make([]IngestEntry, len(records))
	for i, record := range records {
		result[i] = IngestEntry{
			RunID:      record.RunID,
			DedupKey:   record.DedupKey,
			SourcePath: record.SourcePath,
			Action:     string(record.Action),
			IngestTime: record.IngestTime,
		}
	}
	return result
}
