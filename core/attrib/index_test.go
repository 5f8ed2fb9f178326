package attrib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIndex(t *testing.T) {
	idx := BuildIndex([]RosterRow{
		{Folder: "FICS", Identity: "john@x.com"},
		{Folder: `S:\CT_DATA\Stanley\Project A`, Identity: "stan@x.com"},
		{Folder: "", Identity: "nobody@x.com"},
		{Folder: "orphan", Identity: "  "},
	})

	assert.Equal(t, map[string]string{
		"fics":      "john@x.com",
		"s:":        "stan@x.com",
		"ct_data":   "stan@x.com",
		"stanley":   "stan@x.com",
		"project a": "stan@x.com",
	}, idx.ComponentMap)
	assert.Equal(t, []PathEntry{
		{Path: "fics", Identity: "john@x.com"},
		{Path: "s:/ct_data/stanley/project a", Identity: "stan@x.com"},
	}, idx.PathList)
	assert.False(t, idx.Empty())
}

func TestBuildIndexLastRowWinsForComponent(t *testing.T) {
	idx := BuildIndex([]RosterRow{
		{Folder: "Shared", Identity: "first@x.com"},
		{Folder: "shared", Identity: "second@x.com"},
	})
	assert.Equal(t, "second@x.com", idx.ComponentMap["shared"])
	assert.Len(t, idx.PathList, 2)
	assert.Equal(t, "first@x.com", idx.PathList[0].Identity)
}

func TestIndexEmpty(t *testing.T) {
	var nilIdx *Index
	assert.True(t, nilIdx.Empty())
	assert.True(t, BuildIndex(nil).Empty())
}
