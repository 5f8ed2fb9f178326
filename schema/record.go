package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrNotObject is returned when a record is decoded from a JSON value that is not an object.
var ErrNotObject = errors.New("json value is not an object")

// Record is one normalized instrument-scan metadata object.
// Field order is preserved from the source JSON so that a rewritten store stays readable.
type Record struct {
	fields *orderedmap.OrderedMap[string, any]
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, any]()}
}

// NewRawRecord wraps a non-object JSON value as {"_raw": v}.
func NewRawRecord(v any) *Record {
	r := NewRecord()
	r.Set(RawField, v)
	return r
}

// RecordFromMap builds a record from a plain map. Keys are inserted in sorted order.
func RecordFromMap(m map[string]any) *Record {
	r := NewRecord()
	for _, k := range sortedKeys(m) {
		r.Set(k, m[k])
	}
	return r
}

func (r *Record) init() {
	if r.fields == nil {
		r.fields = orderedmap.New[string, any]()
	}
}

// Get returns the value of a field and whether it is present.
func (r *Record) Get(field string) (any, bool) {
	if r == nil || r.fields == nil {
		return nil, false
	}
	return r.fields.Get(field)
}

// Has reports whether the field is present, even when its value is null.
func (r *Record) Has(field string) bool {
	_, ok := r.Get(field)
	return ok
}

// Set assigns a field, keeping its original position when it already exists.
func (r *Record) Set(field string, value any) {
	r.init()
	r.fields.Set(field, value)
}

// SetDefault assigns the field only when it is absent and reports whether it did.
func (r *Record) SetDefault(field string, value any) bool {
	if r.Has(field) {
		return false
	}
	r.Set(field, value)
	return true
}

// Delete removes a field.
func (r *Record) Delete(field string) {
	if r == nil || r.fields == nil {
		return
	}
	r.fields.Delete(field)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil || r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.Len())
	r.Range(func(k string, _ any) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Range calls fn for every field in insertion order until fn returns false.
func (r *Record) Range(fn func(field string, value any) bool) {
	if r == nil || r.fields == nil {
		return
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// StringField returns the trimmed string value of a field, or "" when absent or not a string.
func (r *Record) StringField(field string) string {
	v, ok := r.Get(field)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Nested returns the field as an object when it holds one.
func (r *Record) Nested(field string) (map[string]any, bool) {
	v, ok := r.Get(field)
	if !ok {
		return nil, false
	}
	switch n := v.(type) {
	case map[string]any:
		return n, true
	case *Record:
		return n.ToMap(), true
	default:
		return nil, false
	}
}

// ToMap returns a shallow copy of the fields as a plain map.
func (r *Record) ToMap() map[string]any {
	m := make(map[string]any, r.Len())
	r.Range(func(k string, v any) bool {
		m[k] = v
		return true
	})
	return m
}

// Clone returns a copy of the record. Nested objects are copied one level deep.
func (r *Record) Clone() *Record {
	c := NewRecord()
	r.Range(func(k string, v any) bool {
		if n, ok := v.(map[string]any); ok {
			cp := make(map[string]any, len(n))
			for nk, nv := range n {
				cp[nk] = nv
			}
			v = cp
		}
		c.Set(k, v)
		return true
	})
	return c
}

// MarshalJSON implements json.Marshaler, preserving field order.
// HTML characters are written as-is.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	var err error
	first := true
	r.Range(func(k string, v any) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err = enc.Encode(k); err != nil {
			return false
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err = enc.Encode(v); err != nil {
			return false
		}
		trimNewline(&buf)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// trimNewline drops the newline json.Encoder appends after each value.
func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}

// UnmarshalJSON implements json.Unmarshaler. Only JSON objects are accepted.
// Numbers are kept as json.Number so integers beyond float64 precision survive.
func (r *Record) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrNotObject
	}
	dec := newDecoder(trimmed)
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	fields := orderedmap.New[string, any]()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to decode record: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("failed to decode record: unexpected key %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("failed to decode record field %q: %w", key, err)
		}
		fields.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	if err := expectEOF(dec); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	r.fields = fields
	return nil
}

func newDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after json value")
	}
	return nil
}

// decodeValue decodes a single JSON value with numbers kept as json.Number.
func decodeValue(data []byte) (any, error) {
	dec := newDecoder(data)
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeRecords turns an arbitrary decoded JSON value into zero or more records.
// Objects become one record, arrays yield one record per element, and anything
// else is wrapped as {"_raw": v}. A JSON null yields no records.
func DecodeRecords(data []byte) ([]*Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty json document")
	}
	switch trimmed[0] {
	case '{':
		r := NewRecord()
		if err := r.UnmarshalJSON(trimmed); err != nil {
			return nil, err
		}
		return []*Record{r}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode record array: %w", err)
		}
		records := make([]*Record, 0, len(items))
		for _, item := range items {
			rec, err := decodeElement(item)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		return records, nil
	default:
		v, err := decodeValue(trimmed)
		if err != nil {
			return nil, fmt.Errorf("failed to decode json value: %w", err)
		}
		if v == nil {
			return nil, nil
		}
		return []*Record{NewRawRecord(v)}, nil
	}
}

// decodeElement decodes one array element, wrapping non-objects.
func decodeElement(item json.RawMessage) (*Record, error) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		r := NewRecord()
		if err := r.UnmarshalJSON(trimmed); err != nil {
			return nil, err
		}
		return r, nil
	}
	v, err := decodeValue(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode array element: %w", err)
	}
	return NewRawRecord(v), nil
}
