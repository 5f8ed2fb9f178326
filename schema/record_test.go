package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPreservesFieldOrder(t *testing.T) {
	r := NewRecord()
	require.NoError(t, json.Unmarshal([]byte(`{"zeta":1,"alpha":"a","mid":true}`), r))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, r.Keys())

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":1,"alpha":"a","mid":true}`, string(out))
	assert.Equal(t, `{"zeta":1,"alpha":"a","mid":true}`, string(out))
}

func TestRecordSetKeepsPosition(t *testing.T) {
	r := NewRecord()
	r.Set("a", 1)
	r.Set("b", 2)
	r.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, r.Keys())
	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestRecordSetDefault(t *testing.T) {
	r := NewRecord()
	assert.True(t, r.SetDefault(SourcePathField, "first.json"))
	assert.False(t, r.SetDefault(SourcePathField, "second.json"))
	assert.Equal(t, "first.json", r.StringField(SourcePathField))

	// A present null still counts as present.
	n := NewRecord()
	n.Set(SourcePathField, nil)
	assert.False(t, n.SetDefault(SourcePathField, "x.json"))
}

func TestRecordNested(t *testing.T) {
	r := NewRecord()
	require.NoError(t, json.Unmarshal([]byte(`{"calib_images":{"GainImg":"S:\\x"},"flat":"v"}`), r))

	nested, ok := r.Nested(CalibBucketField)
	require.True(t, ok)
	assert.Equal(t, `S:\x`, nested["GainImg"])

	_, ok = r.Nested("flat")
	assert.False(t, ok)
	_, ok = r.Nested("missing")
	assert.False(t, ok)
}

func TestRecordUnmarshalRejectsNonObject(t *testing.T) {
	for _, in := range []string{`[1]`, `"str"`, `42`, `null`} {
		r := NewRecord()
		err := json.Unmarshal([]byte(in), r)
		assert.ErrorIs(t, err, ErrNotObject, in)
	}
}

func TestRecordNilSafety(t *testing.T) {
	var r *Record
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Has("x"))
	assert.Empty(t, r.Keys())
	assert.Equal(t, "", r.StringField("x"))
}

func TestRecordClone(t *testing.T) {
	r := RecordFromMap(map[string]any{
		"b":            1.0,
		"a":            "x",
		"calib_images": map[string]any{"GainImg": "p"},
	})
	assert.Equal(t, []string{"a", "b", "calib_images"}, r.Keys())

	c := r.Clone()
	c.Set("a", "changed")
	nested, _ := c.Nested(CalibBucketField)
	nested["GainImg"] = "changed"

	assert.Equal(t, "x", r.StringField("a"))
	orig, _ := r.Nested(CalibBucketField)
	assert.Equal(t, "p", orig["GainImg"])
}

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		raw      bool
		wantErr  bool
	}{
		{name: "single object", input: `{"file_name":"a.pca"}`, expected: 1},
		{name: "array of objects", input: `[{"a":1},{"b":2}]`, expected: 2},
		{name: "array with scalar", input: `[{"a":1},"loose"]`, expected: 2},
		{name: "scalar top level", input: `"just a string"`, expected: 1, raw: true},
		{name: "number top level", input: `12`, expected: 1, raw: true},
		{name: "null", input: `null`, expected: 0},
		{name: "empty array", input: `[]`, expected: 0},
		{name: "empty document", input: `   `, wantErr: true},
		{name: "broken object", input: `{"a":`, wantErr: true},
		{name: "broken array", input: `[{"a":1},`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := DecodeRecords([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.expected)
			if tt.raw {
				assert.True(t, records[0].Has(RawField))
			}
		})
	}
}

func TestDecodeRecordsWrapsArrayScalars(t *testing.T) {
	records, err := DecodeRecords([]byte(`["string_value"]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	v, ok := records[0].Get(RawField)
	require.True(t, ok)
	assert.Equal(t, "string_value", v)
}

func TestMatchFound(t *testing.T) {
	assert.False(t, Match{}.Found())
	assert.True(t, Match{Identity: "a@x.com"}.Found())
}

func TestRecordMarshalKeepsHTMLCharacters(t *testing.T) {
	r := NewRecord()
	r.Set("note", "<a & b>")
	r.Set("nested", map[string]any{"z": "x>y", "a": nil})

	out, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"note":"<a & b>","nested":{"a":null,"z":"x>y"}}`, string(out))
}

func TestRecordKeepsNumberLiterals(t *testing.T) {
	records, err := DecodeRecords([]byte(`[{"id":9007199254740993,"nested":{"n":12345678901234567890}}, 18446744073709551617]`))
	require.NoError(t, err)
	require.Len(t, records, 2)

	v, _ := records[0].Get("id")
	assert.Equal(t, json.Number("9007199254740993"), v)
	nested, ok := records[0].Nested("nested")
	require.True(t, ok)
	assert.Equal(t, json.Number("12345678901234567890"), nested["n"])

	raw, _ := records[1].Get(RawField)
	assert.Equal(t, json.Number("18446744073709551617"), raw)

	out, err := json.Marshal(records[0])
	require.NoError(t, err)
	assert.Equal(t, `{"id":9007199254740993,"nested":{"n":12345678901234567890}}`, string(out))
}

func TestRecordUnmarshalRejectsTrailingData(t *testing.T) {
	r := NewRecord()
	assert.Error(t, r.UnmarshalJSON([]byte(`{"a":1} {"b":2}`)))
	assert.Error(t, r.UnmarshalJSON([]byte(`{"a":1,}`)))
}
