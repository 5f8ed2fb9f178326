// Package pathnorm canonicalizes file-system path strings so that Windows drive
// paths, UNC shares, POSIX paths and file:// URIs compare equal.
package pathnorm

import (
	"regexp"
	"strings"
)

var (
	fileSchemeRe = regexp.MustCompile(`(?i)^file:/*`)
	slashRunRe   = regexp.MustCompile(`/+`)
	spaceRunRe   = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)
	separatorRe  = regexp.MustCompile(`[\\/]+`)
)

// NormalizeComponent normalizes a single path component or short token:
// trimmed, internal whitespace collapsed to one space, lower-cased.
func NormalizeComponent(s string) string {
	return strings.ToLower(spaceRunRe.ReplaceAllString(strings.TrimSpace(s), " "))
}

// NormalizePath normalizes a full path for substring comparison.
func NormalizePath(s string) string {
	s = strings.TrimSpace(s)
	s = fileSchemeRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, `\`, "/")
	s = slashRunRe.ReplaceAllString(s, "/")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.ToLower(s)
}

// SplitPathComponents splits on runs of '\' or '/' and drops empty components.
// A leading drive letter such as "S:" is kept as its own component.
func SplitPathComponents(s string) []string {
	parts := separatorRe.Split(s, -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizedComponents splits a path and normalizes every component,
// dropping components that normalize to the empty string.
func NormalizedComponents(s string) []string {
	parts := SplitPathComponents(s)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := NormalizeComponent(p); c != "" {
			out = append(out, c)
		}
	}
	return out
}
