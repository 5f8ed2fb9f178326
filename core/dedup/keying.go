// Package dedup computes stable record identities and merges record streams
// into a keyed, insertion-ordered collection.
package dedup

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/huangsam/ctmeta/schema"
)

// KeyFields is the fixed priority list of identity fields.
var KeyFields = []string{"id", "uuid", "source", schema.SourcePathField, "filename"}

// RecordKey returns the dedup key of a record: "<field>:<value>" for the first
// identity field holding a non-null, non-empty value, else the hex SHA-256 of
// the record's canonical JSON.
func RecordKey(r *schema.Record) string {
	for _, field := range KeyFields {
		v, ok := r.Get(field)
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr {
			if s == "" {
				continue
			}
			return field + ":" + s
		}
		text, err := CanonicalJSON(v)
		if err != nil {
			text = []byte(fmt.Sprint(v))
		}
		return field + ":" + string(text)
	}
	return ContentHash(r)
}

// ContentHash returns the lowercase hex SHA-256 of the record's canonical JSON.
func ContentHash(r *schema.Record) string {
	payload, err := CanonicalJSON(r.ToMap())
	if err != nil {
		payload = []byte(fmt.Sprintf("%#v", r.ToMap()))
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// CanonicalJSON serializes v with object keys sorted at every depth, compact
// separators and HTML escaping disabled.
func CanonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case *schema.Record:
		return writeCanonical(buf, t.ToMap())
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return writeScalar(buf, v)
	}
}

func writeScalar(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode canonical value: %w", err)
	}
	// Encoder appends a newline after every value.
	buf.Truncate(buf.Len() - 1)
	return nil
}
