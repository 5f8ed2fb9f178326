package contract

import (
	"strings"
	"testing"
)

// FuzzShouldIgnore fuzzes the ShouldIgnore function with random paths and exclude patterns.
func FuzzShouldIgnore(f *testing.F) {
	seeds := []struct {
		path     string
		excludes string // comma-separated
	}{
		{"runs/a.json", "*.bak.json"},
		{"archive/2023/a.json", "archive/"},
		{"a.tmp.json", "*.tmp.json"},
		{"metadata.json", ".json"},
		{"", ""},
		{"very/long/path/to/scan.json", "**/scratch/**"},
		{`S:\CT_DATA\x.json`, "[bad"},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.excludes)
	}

	f.Fuzz(func(_ *testing.T, path string, excludesStr string) {
		var excludes []string
		for ex := range strings.SplitSeq(excludesStr, ",") {
			if trimmed := strings.TrimSpace(ex); trimmed != "" {
				excludes = append(excludes, trimmed)
			}
		}
		_ = ShouldIgnore(path, excludes)
	})
}
