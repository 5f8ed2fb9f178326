package dedup

import (
	"testing"

	"github.com/huangsam/ctmeta/schema"
)

// FuzzRecordKey checks that keying is deterministic regardless of insertion order.
func FuzzRecordKey(f *testing.F) {
	f.Add("voltage", "200", "current", "50")
	f.Add("id", "", "uuid", "u-1")
	f.Add("", "", "", "")

	f.Fuzz(func(t *testing.T, k1, v1, k2, v2 string) {
		a := schema.NewRecord()
		a.Set(k1, v1)
		a.Set(k2, v2)

		b := schema.NewRecord()
		b.Set(k2, v2)
		b.Set(k1, v1)

		// With equal keys the later Set wins, so the records only agree when values match too.
		if k1 == k2 && v1 != v2 {
			return
		}
		if RecordKey(a) != RecordKey(b) {
			t.Fatalf("key depends on field order for %q=%q %q=%q", k1, v1, k2, v2)
		}
	})
}
