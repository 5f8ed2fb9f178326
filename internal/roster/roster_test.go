package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/ctmeta/core/attrib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected rune
	}{
		{name: "comma", input: "Folder,Email\nFICS,john@x.com\n", expected: ','},
		{name: "tab", input: "Folder\tEmail\nFICS\tjohn@x.com\n", expected: '\t'},
		{name: "semicolon", input: "Folder;Email\nFICS;john@x.com\n", expected: ';'},
		{name: "pipe", input: "Folder|Email\nFICS|john@x.com\n", expected: '|'},
		{name: "comma wins tie", input: "a,b;c\nd,e;f\n", expected: ','},
		{name: "inconsistent comma falls to tab", input: "a,b\tc\nd\te\n", expected: '\t'},
		{name: "nothing consistent with tab", input: "a\tb\tc\nd,e\tf\n", expected: '\t'},
		{name: "nothing at all", input: "single\n", expected: ','},
		{name: "crlf", input: "Folder;Email\r\nFICS;john@x.com\r\n", expected: ';'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, string(tt.expected), string(Sniff([]byte(tt.input))))
		})
	}
}

func TestParseWithHeader(t *testing.T) {
	rows, info, err := Parse([]byte("Name,Folder,Email\nJohn,FICS,john@x.com\nStan,Stanley,stan@x.com\n"))
	require.NoError(t, err)

	assert.True(t, info.HasHeader)
	assert.Equal(t, 1, info.FolderColumn)
	assert.Equal(t, 2, info.IdentityColumn)
	assert.Equal(t, []attrib.RosterRow{
		{Folder: "FICS", Identity: "john@x.com"},
		{Folder: "Stanley", Identity: "stan@x.com"},
	}, rows)
}

func TestParseHeaderSynonyms(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "folder path and e-mail", header: "Folder Path;E-Mail"},
		{name: "path and email address", header: "path;email address"},
		{name: "name and identity", header: " NAME ; Identity "},
		{name: "folder name and mail", header: "folder name;mail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, info, err := Parse([]byte(tt.header + "\nFICS;john@x.com\n"))
			require.NoError(t, err)
			assert.True(t, info.HasHeader)
			assert.Equal(t, []attrib.RosterRow{{Folder: "FICS", Identity: "john@x.com"}}, rows)
		})
	}
}

func TestParseHeadlessUsesFirstAndLastColumns(t *testing.T) {
	rows, info, err := Parse([]byte("FICS\tJohn Smith\tjohn@x.com\nStanley\tStan\tstan@x.com\n"))
	require.NoError(t, err)

	assert.False(t, info.HasHeader)
	assert.Equal(t, '\t', info.Delimiter)
	assert.Equal(t, []attrib.RosterRow{
		{Folder: "FICS", Identity: "john@x.com"},
		{Folder: "Stanley", Identity: "stan@x.com"},
	}, rows)
}

func TestParseHeaderNeedsBothColumns(t *testing.T) {
	rows, info, err := Parse([]byte("Folder,Owner\nFICS,john@x.com\n"))
	require.NoError(t, err)

	// Without a recognised identity column the first line is data.
	assert.False(t, info.HasHeader)
	assert.Equal(t, []attrib.RosterRow{
		{Folder: "Folder", Identity: "Owner"},
		{Folder: "FICS", Identity: "john@x.com"},
	}, rows)
}

func TestParseStripsBOMAndSkipsShortRows(t *testing.T) {
	content := "\xEF\xBB\xBFFolder,Email\nFICS,john@x.com\nlonely,\n,\n\nStanley,stan@x.com\n"
	rows, info, err := Parse([]byte(content))
	require.NoError(t, err)

	assert.True(t, info.HasHeader)
	assert.Equal(t, 1, info.SkippedRows)
	assert.Equal(t, 2, info.Rows)
	assert.Equal(t, []attrib.RosterRow{
		{Folder: "FICS", Identity: "john@x.com"},
		{Folder: "Stanley", Identity: "stan@x.com"},
	}, rows)
}

func TestParseToleratesRaggedAndQuotedRows(t *testing.T) {
	content := "Folder,Email,Note\n\"S:\\CT_DATA\\Project, A\",a@x.com\nFICS,john@x.com,extra,fields\n"
	rows, _, err := Parse([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, []attrib.RosterRow{
		{Folder: `S:\CT_DATA\Project, A`, Identity: "a@x.com"},
		{Folder: "FICS", Identity: "john@x.com"},
	}, rows)
}

func TestParseEmpty(t *testing.T) {
	rows, _, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadMissingFile(t *testing.T) {
	rows, info, err := Read(filepath.Join(t.TempDir(), "users.csv"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.True(t, info.FileIsMissing)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(path, []byte("Folder|Email\nFICS|john@x.com\n"), 0o644))

	rows, info, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, path, info.Path)
	assert.Equal(t, '|', info.Delimiter)
	assert.Equal(t, []attrib.RosterRow{{Folder: "FICS", Identity: "john@x.com"}}, rows)
}
