// Package attrib infers record ownership from a folder roster by matching
// record paths against roster folders, preferring the most specific match.
package attrib

import (
	"strings"

	"github.com/huangsam/ctmeta/core/pathnorm"
)

// RosterRow is one folder-to-identity assignment from the roster.
type RosterRow struct {
	Folder   string
	Identity string
}

// PathEntry is a normalized roster folder used for substring matching.
type PathEntry struct {
	Path     string
	Identity string
}

// Index holds the two lookup structures derived from a roster.
// It is built once per projection and never mutated afterwards.
type Index struct {
	ComponentMap map[string]string
	PathList     []PathEntry
}

// BuildIndex derives the component map and path list from roster rows.
// Rows with an empty folder or identity are skipped. For components shared by
// several rows the last row wins.
func BuildIndex(rows []RosterRow) *Index {
	idx := &Index{ComponentMap: make(map[string]string)}
	for _, row := range rows {
		folder := strings.TrimSpace(row.Folder)
		identity := strings.TrimSpace(row.Identity)
		if folder == "" || identity == "" {
			continue
		}
		for _, c := range pathnorm.NormalizedComponents(folder) {
			idx.ComponentMap[c] = identity
		}
		if p := pathnorm.NormalizePath(folder); p != "" {
			idx.PathList = append(idx.PathList, PathEntry{Path: p, Identity: identity})
		}
	}
	return idx
}

// Empty reports whether the index can match anything at all.
func (idx *Index) Empty() bool {
	return idx == nil || (len(idx.ComponentMap) == 0 && len(idx.PathList) == 0)
}
