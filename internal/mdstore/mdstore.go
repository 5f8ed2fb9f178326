// Package mdstore persists the cumulative metadata store and discovers parser output files.
package mdstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/ctmeta/schema"
)

// Sentinel errors for store and input decoding.
var (
	ErrMalformedStore = errors.New("malformed metadata store")
	ErrNotRecord      = schema.ErrNotObject
)

// LoadStore reads the persisted store. A missing file is an empty store.
// Content that does not decode to a JSON array is reported as ErrMalformedStore.
func LoadStore(path string) ([]*schema.Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %s: top-level value is not an array", ErrMalformedStore, path)
	}
	records, err := schema.DecodeRecords(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedStore, path, err)
	}
	return records, nil
}

// ReadRecordFile decodes one parser output file into records.
func ReadRecordFile(path string) ([]*schema.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	records, err := schema.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return records, nil
}

// EncodeStore renders records the way the store is persisted: a two-space
// indented JSON array without HTML escaping.
func EncodeStore(records []*schema.Record) ([]byte, error) {
	if records == nil {
		records = []*schema.Record{}
	}
	data, err := encodeIndented(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode store: %w", err)
	}
	return data, nil
}

// EncodeRecord renders a single record with the same layout as the store.
func EncodeRecord(r *schema.Record) ([]byte, error) {
	if r == nil {
		r = schema.NewRecord()
	}
	data, err := encodeIndented(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

func encodeIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveStore atomically replaces the store at path with records.
func SaveStore(path string, records []*schema.Record) error {
	data, err := EncodeStore(records)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to a temp file next to path, syncs it and
// renames it over path. On failure the previous file is left untouched.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
