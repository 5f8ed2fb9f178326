// Package roster reads the folder-to-user roster used for attribution.
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/ctmeta/core/attrib"
)

// sampleSize is how much of the file is inspected to guess the delimiter.
const sampleSize = 4096

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Delimiters are the separators considered when sniffing, in tie-break order.
var Delimiters = []rune{',', '\t', ';', '|'}

// Header synonyms, matched case-insensitively after trimming, in priority order.
var (
	FolderHeaders   = []string{"folder", "folder name", "folder path", "path", "name"}
	IdentityHeaders = []string{"email", "e-mail", "email address", "mail", "identity"}
)

// Info describes how a roster file was interpreted.
type Info struct {
	Path           string
	Delimiter      rune
	HasHeader      bool
	FolderColumn   int
	IdentityColumn int // -1 means the last column of each row
	Rows           int
	SkippedRows    int
	FileIsMissing  bool
}

// Read loads roster rows from path. A missing file yields no rows and no error.
func Read(path string) ([]attrib.RosterRow, Info, error) {
	info := Info{Path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		info.FileIsMissing = true
		return nil, info, nil
	}
	if err != nil {
		return nil, info, fmt.Errorf("failed to read roster %s: %w", path, err)
	}
	rows, info, err := Parse(data)
	info.Path = path
	return rows, info, err
}

// Parse interprets roster content already in memory.
func Parse(data []byte) ([]attrib.RosterRow, Info, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	info := Info{Delimiter: Sniff(data), IdentityColumn: -1}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = info.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, info, fmt.Errorf("failed to parse roster: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, info, nil
	}

	folderCol, identityCol, ok := detectHeader(records[0])
	if ok {
		info.HasHeader = true
		info.FolderColumn, info.IdentityColumn = folderCol, identityCol
		records = records[1:]
	}

	var rows []attrib.RosterRow
	for _, rec := range records {
		if populated(rec) < 2 {
			info.SkippedRows++
			continue
		}
		var row attrib.RosterRow
		if info.HasHeader {
			row = attrib.RosterRow{Folder: cell(rec, folderCol), Identity: cell(rec, identityCol)}
		} else {
			row = attrib.RosterRow{Folder: cell(rec, 0), Identity: cell(rec, len(rec)-1)}
		}
		rows = append(rows, row)
	}
	info.Rows = len(rows)
	return rows, info, nil
}

// Sniff guesses the delimiter from the start of the content. A candidate wins
// when it appears the same non-zero number of times on every sampled line.
func Sniff(data []byte) rune {
	sample := data
	truncated := false
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
		truncated = true
	}

	lines := strings.Split(strings.ReplaceAll(string(sample), "\r\n", "\n"), "\n")
	if truncated && len(lines) > 1 {
		lines = lines[:len(lines)-1]
	}
	var sampled []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			sampled = append(sampled, line)
		}
	}

	for _, d := range Delimiters {
		if consistent(sampled, d) {
			return d
		}
	}
	if bytes.ContainsRune(sample, '\t') {
		return '\t'
	}
	return ','
}

func consistent(lines []string, d rune) bool {
	if len(lines) == 0 {
		return false
	}
	want := strings.Count(lines[0], string(d))
	if want == 0 {
		return false
	}
	for _, line := range lines[1:] {
		if strings.Count(line, string(d)) != want {
			return false
		}
	}
	return true
}

// detectHeader reports the folder and identity columns when rec is a header row.
func detectHeader(rec []string) (int, int, bool) {
	folder := findColumn(rec, FolderHeaders)
	identity := findColumn(rec, IdentityHeaders)
	if folder < 0 || identity < 0 || folder == identity {
		return 0, 0, false
	}
	return folder, identity, true
}

func findColumn(rec []string, synonyms []string) int {
	for _, name := range synonyms {
		for i, c := range rec {
			if strings.EqualFold(strings.TrimSpace(c), name) {
				return i
			}
		}
	}
	return -1
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func populated(rec []string) int {
	n := 0
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}

func isBlank(rec []string) bool {
	return populated(rec) == 0
}
