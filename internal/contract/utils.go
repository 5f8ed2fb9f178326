package contract

import (
	"fmt"
	"os"
	pathpkg "path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	SuccessColor = color.New(color.FgGreen, color.Bold) // SuccessColor highlights completed writes.
	WarnColor    = color.New(color.FgYellow)            // WarnColor highlights skipped inputs and resets.
	MatchColor   = color.New(color.FgCyan)              // MatchColor highlights attributed identities.
	MissColor    = color.New(color.FgRed)               // MissColor highlights records without an identity.
)

// Unmatched is shown in tables for records without an identity.
const Unmatched = "-"

// GetIdentityLabel returns the identity for table output, colored when enabled.
func GetIdentityLabel(identity string, useColors bool) string {
	if identity == "" {
		if useColors {
			return MissColor.Sprint(Unmatched)
		}
		return Unmatched
	}
	if useColors {
		return MatchColor.Sprint(identity)
	}
	return identity
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// Patterns with wildcard characters (*, ?, [ ], { }) are doublestar globs matched
// against the slash-separated path and its base name, so "**" spans directories.
// Patterns ending with '/' are treated as prefixes. Patterns starting with '.' are
// treated as suffix (extension) matches. Anything else is a substring match.
// A user can provide patterns like "archive/", "archive/**/*.json", "*.bak.json", ".tmp".
func ShouldIgnore(path string, excludes []string) bool {
	slashed := filepath.ToSlash(path)
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[{") {
			if ok, err := doublestar.Match(ex, slashed); err == nil && ok {
				return true
			}
			if ok, err := doublestar.Match(ex, pathpkg.Base(slashed)); err == nil && ok {
				return true
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(slashed, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(slashed, ex) {
				return true
			}
		case strings.Contains(slashed, ex):
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logger.WithError(err).Error(msg)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	logger.WithError(err).Warn(msg)
}

// GetLedgerDBFilePath returns the path to the SQLite DB file for the ingestion ledger.
func GetLedgerDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ctmeta_ledger.db"
	}
	return filepath.Join(homeDir, ".ctmeta_ledger.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so the "..." prefix leaves room for content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
