package dedup

import (
	"fmt"
	"testing"

	"github.com/huangsam/ctmeta/schema"
)

func benchRecords(n int) []*schema.Record {
	records := make([]*schema.Record, n)
	for i := range records {
		records[i] = schema.RecordFromMap(map[string]any{
			"file_name": fmt.Sprintf("scan_%05d.pca", i),
			"file_path": fmt.Sprintf(`S:\CT_DATA\FICS\p%d\scan_%05d.pca`, i%50, i),
			"voltage":   float64(80 + i%40),
		})
	}
	return records
}

func BenchmarkMerge(b *testing.B) {
	existing := benchRecords(5000)
	incoming := benchRecords(10000)
	b.ReportAllocs()
	for b.Loop() {
		Merge(existing, incoming, "data/parsed/batch.json")
	}
}

func BenchmarkRecordKey(b *testing.B) {
	records := benchRecords(1000)
	b.ReportAllocs()
	for b.Loop() {
		for _, r := range records {
			RecordKey(r)
		}
	}
}
