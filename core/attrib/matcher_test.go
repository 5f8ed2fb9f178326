package attrib

import (
	"encoding/json"
	"testing"

	"github.com/huangsam/ctmeta/schema"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, s string) *schema.Record {
	t.Helper()
	r := schema.NewRecord()
	require.NoError(t, json.Unmarshal([]byte(s), r))
	return r
}

func newMatcher(t *testing.T, idx *Index) *Matcher {
	t.Helper()
	m, err := NewMatcher(idx, DefaultOptions())
	require.NoError(t, err)
	return m
}

func TestMatchLongerComponentWins(t *testing.T) {
	idx := &Index{ComponentMap: map[string]string{
		"fics":            "general@x.com",
		"special_project": "specific@x.com",
	}}
	r := mustRecord(t, `{"file_path":"S:\\CT_DATA\\FICS\\special_project\\file.pca"}`)

	got := newMatcher(t, idx).Match(r)

	assert.Equal(t, "specific@x.com", got.Identity)
	assert.Equal(t, len("special_project"), got.Weight)
	assert.Equal(t, schema.ComponentMatch, got.Kind)
	assert.Equal(t, "special_project", got.Key)
}

func TestMatchSubstringOutranksComponent(t *testing.T) {
	idx := BuildIndex([]RosterRow{
		{Folder: "FICS", Identity: "general@x.com"},
		{Folder: `S:\CT_DATA\FICS\p1`, Identity: "project@x.com"},
	})
	r := mustRecord(t, `{"file_hyperlink":"file:///S:/CT_DATA/FICS/p1/a.pca"}`)

	got := newMatcher(t, idx).Match(r)

	assert.Equal(t, "project@x.com", got.Identity)
	assert.Equal(t, schema.PathMatch, got.Kind)
	assert.Equal(t, "s:/ct_data/fics/p1", got.Key)
}

func TestMatchTieKeepsFirstFound(t *testing.T) {
	idx := &Index{ComponentMap: map[string]string{
		"aaaa": "first@x.com",
		"bbbb": "second@x.com",
	}}
	r := mustRecord(t, `{"file_path":"/aaaa/bbbb/x.pca"}`)
	assert.Equal(t, "first@x.com", newMatcher(t, idx).MatchIdentity(r))

	// Candidate order decides across fields: file_path is scanned before source_path.
	r2 := mustRecord(t, `{"source_path":"/aaaa/x.json","file_path":"/bbbb/x.pca"}`)
	assert.Equal(t, "second@x.com", newMatcher(t, idx).MatchIdentity(r2))
}

func TestMatchUsesCalibrationBucket(t *testing.T) {
	idx := BuildIndex([]RosterRow{{Folder: "Stanley", Identity: "stan@x.com"}})
	r := mustRecord(t, `{
		"file_path": "N/A",
		"calib_images": {"MGainImg": "S:\\CT_DATA\\Stanley\\calib\\gain.tif", "GainImg": "n/a"}
	}`)

	got := newMatcher(t, idx).Match(r)
	assert.Equal(t, "stan@x.com", got.Identity)
	assert.Equal(t, `S:\CT_DATA\Stanley\calib\gain.tif`, got.Candidate)
}

func TestMatchNoMatch(t *testing.T) {
	idx := BuildIndex([]RosterRow{{Folder: "FICS", Identity: "john@x.com"}})
	r := mustRecord(t, `{"file_path":"/data/other/place/scan.pca"}`)

	got := newMatcher(t, idx).Match(r)
	assert.False(t, got.Found())
	assert.Equal(t, "", got.Identity)
}

func TestMatchEmptyIndexFastPath(t *testing.T) {
	r := mustRecord(t, `{"file_path":"S:\\CT_DATA\\FICS\\a.pca"}`)
	m := newMatcher(t, BuildIndex(nil))
	assert.Equal(t, "", m.MatchIdentity(r))

	m2, err := NewMatcher(nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "", m2.MatchIdentity(r))
}

func TestMatchIgnoresNonStringCandidates(t *testing.T) {
	idx := BuildIndex([]RosterRow{{Folder: "42", Identity: "n@x.com"}})
	r := mustRecord(t, `{"file_path":42,"calib_images":"not an object"}`)
	assert.Equal(t, "", newMatcher(t, idx).MatchIdentity(r))
}

func TestGatherCandidatesOrder(t *testing.T) {
	r := mustRecord(t, `{
		"source_path": "d.json",
		"file_path": " a.pca ",
		"txrm_file_path": "",
		"file_hyperlink": "N/A",
		"calib_images": {"calib_folder_path": "c", "OffsetImg": "b"}
	}`)
	m := newMatcher(t, nil)
	assert.Equal(t, []string{"a.pca", "d.json", "b", "c"}, m.GatherCandidates(r))
}

func TestMatchCustomFields(t *testing.T) {
	idx := BuildIndex([]RosterRow{{Folder: "lab7", Identity: "lab@x.com"}})
	m, err := NewMatcher(idx, Options{Fields: []string{"scan_dir"}})
	require.NoError(t, err)

	assert.Equal(t, "lab@x.com", m.MatchIdentity(mustRecord(t, `{"scan_dir":"/mnt/Lab7/run1"}`)))
	assert.Equal(t, "", m.MatchIdentity(mustRecord(t, `{"file_path":"/mnt/lab7/run1"}`)))
}

func TestMatchLogsDecisions(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	opts := DefaultOptions()
	opts.Logger = logger
	m, err := NewMatcher(BuildIndex([]RosterRow{{Folder: "FICS", Identity: "john@x.com"}}), opts)
	require.NoError(t, err)

	m.Match(mustRecord(t, `{"file_path":"S:\\FICS\\a.pca"}`))
	m.Match(mustRecord(t, `{"file_path":"S:\\OTHER\\a.pca"}`))

	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, "attribution match", hook.AllEntries()[0].Message)
	assert.Equal(t, "john@x.com", hook.AllEntries()[0].Data["identity"])
	assert.Equal(t, "no attribution match", hook.AllEntries()[1].Message)
}

func TestMatchMemoizesCandidates(t *testing.T) {
	idx := BuildIndex([]RosterRow{{Folder: "FICS", Identity: "john@x.com"}})
	m := newMatcher(t, idx)
	r := mustRecord(t, `{"file_path":"S:\\FICS\\a.pca"}`)

	assert.Equal(t, "john@x.com", m.MatchIdentity(r))
	assert.Equal(t, 1, m.memo.Len())
	assert.Equal(t, "john@x.com", m.MatchIdentity(r))
	assert.Equal(t, 1, m.memo.Len())
}
