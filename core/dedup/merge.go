package dedup

import "github.com/huangsam/ctmeta/schema"

// Merger holds a keyed collection of records with upsert semantics.
// A replaced record keeps the position of the record it replaced.
type Merger struct {
	index   map[string]int
	keys    []string
	records []*schema.Record
}

// NewMerger returns an empty merger.
func NewMerger() *Merger {
	return &Merger{index: make(map[string]int)}
}

// Seed inserts records of an existing store in order. Later duplicates overwrite earlier ones.
func (m *Merger) Seed(records ...*schema.Record) {
	for _, r := range records {
		m.upsert(RecordKey(r), r)
	}
}

// Ingest adds a newly parsed record. When the record has no source_path and
// provenance is non-empty, source_path is set to provenance before keying.
func (m *Merger) Ingest(r *schema.Record, provenance string) (string, schema.MergeAction) {
	if provenance != "" {
		r.SetDefault(schema.SourcePathField, provenance)
	}
	key := RecordKey(r)
	return key, m.upsert(key, r)
}

func (m *Merger) upsert(key string, r *schema.Record) schema.MergeAction {
	if i, ok := m.index[key]; ok {
		m.records[i] = r
		return schema.ReplaceAction
	}
	m.index[key] = len(m.records)
	m.keys = append(m.keys, key)
	m.records = append(m.records, r)
	return schema.InsertAction
}

// Records returns the merged records in first-insertion order of their keys.
func (m *Merger) Records() []*schema.Record {
	out := make([]*schema.Record, len(m.records))
	copy(out, m.records)
	return out
}

// Keys returns the dedup keys in the same order as Records.
func (m *Merger) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Contains reports whether a key is present.
func (m *Merger) Contains(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Len returns the number of unique records.
func (m *Merger) Len() int {
	return len(m.records)
}

// Merge upserts incoming into existing and returns the merged collection.
func Merge(existing, incoming []*schema.Record, provenance string) []*schema.Record {
	m := NewMerger()
	m.Seed(existing...)
	for _, r := range incoming {
		m.Ingest(r, provenance)
	}
	return m.Records()
}
