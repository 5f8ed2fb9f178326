package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/ctmeta/core/project"
	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/internal/mdstore"
	"github.com/huangsam/ctmeta/internal/parquet"
	"github.com/huangsam/ctmeta/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteTable outputs the projected store, dispatching based on the output format configured.
func WriteTable(stdout, stderr io.Writer, table *project.Table, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		data, err := EncodeJSON(table)
		if err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
		return writeOutput(stdout, stderr, cfg.OutputFile, data, "Wrote JSON")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		data, err := EncodeParquet(table)
		if err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return writeOutput(stdout, stderr, cfg.OutputFile, data, "Wrote Parquet")
	case schema.TextOut:
		return writeWithFile(stdout, stderr, cfg.OutputFile, func(w io.Writer) error {
			return writePreviewTable(w, table, cfg)
		}, "Wrote table")
	default:
		data, err := EncodeCSV(table)
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return writeOutput(stdout, stderr, cfg.OutputFile, data, "Wrote CSV")
	}
}

// EncodeCSV renders the table as CSV with one header row.
func EncodeCSV(table *project.Table) ([]byte, error) {
	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	if err := csvWriter.Write(table.Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range table.Rows {
		if err := csvWriter.Write(table.Values(i)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJSON renders the table as an array of objects whose keys follow the column order.
func EncodeJSON(table *project.Table) ([]byte, error) {
	records := make([]*schema.Record, 0, table.Len())
	for i := range table.Rows {
		r := schema.NewRecord()
		for j, value := range table.Values(i) {
			r.Set(table.Columns[j], value)
		}
		records = append(records, r)
	}
	return mdstore.EncodeStore(records)
}

// EncodeParquet renders the table as Parquet, one row per record.
func EncodeParquet(table *project.Table) ([]byte, error) {
	rows := make([]parquet.FlatRecord, 0, table.Len())
	for i, row := range table.Rows {
		fields, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("failed to encode fields of row %d: %w", i+1, err)
		}
		rows = append(rows, parquet.FlatRecord{
			DedupKey:   table.Keys[i],
			SourcePath: row[schema.SourcePathField],
			Identity:   table.Identities[i],
			Fields:     string(fields),
		})
	}

	var buf bytes.Buffer
	if err := parquet.WriteRows(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writePreviewTable generates and writes a human-readable preview of the first rows.
func writePreviewTable(w io.Writer, table *project.Table, cfg *contract.Config) error {
	tbl := tablewriter.NewWriter(w)
	tbl.Header(table.Columns)

	width := GetMaxTableCellWidth(cfg, len(table.Columns))
	limit := min(table.Len(), cfg.ResultLimit)
	identityIdx := len(table.Columns) - 1

	var data [][]string
	for i := range limit {
		row := table.Values(i)
		for j := range row {
			if j == identityIdx {
				row[j] = contract.GetIdentityLabel(table.Identities[i], cfg.UseColors)
				continue
			}
			row[j] = contract.TruncatePath(row[j], width)
		}
		data = append(data, row)
	}

	if err := tbl.Bulk(data); err != nil {
		return err
	}
	if err := tbl.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d records (%d attributed)\n", limit, table.Len(), countAttributed(table))
	return err
}

// WriteAttribution prints one line per record with its attributed identity.
func WriteAttribution(w io.Writer, table *project.Table, cfg *contract.Config) error {
	tbl := tablewriter.NewWriter(w)

	headers := []string{"#", "Record", "Identity"}
	if cfg.Explain {
		headers = append(headers, "Weight", "Kind", "Matched")
	}
	tbl.Header(headers)
	tbl.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	pathWidth := GetMaxTablePathWidth(cfg)
	limit := min(table.Len(), cfg.ResultLimit)

	var data [][]string
	for i := range limit {
		match := table.Matches[i]
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(recordLabel(table, i), pathWidth),
			contract.GetIdentityLabel(match.Identity, cfg.UseColors),
		}
		if cfg.Explain {
			row = append(row, explainColumns(match)...)
		}
		data = append(data, row)
	}

	if err := tbl.Bulk(data); err != nil {
		return err
	}
	if err := tbl.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d records (%d attributed)\n", limit, table.Len(), countAttributed(table))
	return err
}

// recordLabel names a row by its provenance, falling back to its dedup key.
func recordLabel(table *project.Table, i int) string {
	if p := table.Rows[i][schema.SourcePathField]; p != "" {
		return p
	}
	return table.Keys[i]
}

// explainColumns describes how an identity was chosen.
func explainColumns(match schema.Match) []string {
	if !match.Found() {
		return []string{"", "", ""}
	}
	return []string{strconv.Itoa(match.Weight), string(match.Kind), match.Key}
}

func countAttributed(table *project.Table) int {
	n := 0
	for _, identity := range table.Identities {
		if identity != "" {
			n++
		}
	}
	return n
}
