// Package project turns the metadata store into a flat, attributed table.
package project

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"

	"github.com/huangsam/ctmeta/core/attrib"
	"github.com/huangsam/ctmeta/core/dedup"
	"github.com/huangsam/ctmeta/core/flatten"
	"github.com/huangsam/ctmeta/schema"
)

// Options controls column layout.
type Options struct {
	PreferredColumns []string
	IdentityColumn   string
}

// DefaultOptions returns the standard export layout.
func DefaultOptions() Options {
	return Options{
		PreferredColumns: schema.DefaultPreferredColumns,
		IdentityColumn:   schema.DefaultIdentityColumn,
	}
}

// Table is the projected store. Rows, Keys, Matches and Identities are index-aligned.
type Table struct {
	Columns    []string
	Rows       []map[string]string
	Keys       []string
	Identities []string
	Matches    []schema.Match
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Values returns the cells of row i in column order.
func (t *Table) Values(i int) []string {
	values := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		values[j] = t.Rows[i][c]
	}
	return values
}

// Project flattens every record, attributes it with matcher and lays out the columns.
// A nil matcher attributes nothing.
func Project(records []*schema.Record, matcher *attrib.Matcher, opts Options) *Table {
	if opts.IdentityColumn == "" {
		opts.IdentityColumn = schema.DefaultIdentityColumn
	}

	table := &Table{
		Rows:       make([]map[string]string, 0, len(records)),
		Keys:       make([]string, 0, len(records)),
		Identities: make([]string, 0, len(records)),
		Matches:    make([]schema.Match, 0, len(records)),
	}
	fieldnames := make(map[string]struct{})

	for _, r := range records {
		var match schema.Match
		if matcher != nil {
			match = matcher.Match(r)
		}

		flat := flatten.Flatten(r)
		row := make(map[string]string, len(flat)+1)
		for k, v := range flat {
			row[k] = RenderCell(v)
			fieldnames[k] = struct{}{}
		}
		row[opts.IdentityColumn] = match.Identity

		table.Rows = append(table.Rows, row)
		table.Keys = append(table.Keys, dedup.RecordKey(r))
		table.Identities = append(table.Identities, match.Identity)
		table.Matches = append(table.Matches, match)
	}

	table.Columns = Columns(fieldnames, opts)
	return table
}

// Columns orders the observed field names: preferred columns that are present,
// then the rest sorted, then the identity column last.
func Columns(fieldnames map[string]struct{}, opts Options) []string {
	identity := opts.IdentityColumn
	if identity == "" {
		identity = schema.DefaultIdentityColumn
	}

	columns := make([]string, 0, len(fieldnames)+1)
	preferred := make(map[string]struct{}, len(opts.PreferredColumns))
	for _, c := range opts.PreferredColumns {
		if _, dup := preferred[c]; dup || c == identity {
			continue
		}
		preferred[c] = struct{}{}
		if _, ok := fieldnames[c]; ok {
			columns = append(columns, c)
		}
	}

	var remaining []string
	for c := range fieldnames {
		if _, ok := preferred[c]; ok || c == identity {
			continue
		}
		remaining = append(remaining, c)
	}
	slices.Sort(remaining)

	columns = append(columns, remaining...)
	return append(columns, identity)
}

// RenderCell converts a flattened value into its CSV text.
func RenderCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(x); err != nil {
			return ""
		}
		return string(bytes.TrimRight(buf.Bytes(), "\n"))
	}
}
