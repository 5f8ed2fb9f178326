package attrib

import (
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/huangsam/ctmeta/core/pathnorm"
	"github.com/huangsam/ctmeta/schema"
	"github.com/sirupsen/logrus"
)

// DefaultCacheSize bounds the memo of normalized candidate paths.
const DefaultCacheSize = 4096

// Options configures which record fields are examined and how.
type Options struct {
	Fields       []string // top-level path-bearing fields, in scan order
	Bucket       string   // nested calibration bucket field
	BucketFields []string // path-bearing fields inside the bucket, in scan order
	CacheSize    int
	Logger       logrus.FieldLogger // match decisions are logged at debug level when set
}

// DefaultOptions returns the field set used by the instrument parsers.
func DefaultOptions() Options {
	return Options{
		Fields:       schema.DefaultCandidateFields,
		Bucket:       schema.CalibBucketField,
		BucketFields: schema.DefaultBucketFields,
		CacheSize:    DefaultCacheSize,
	}
}

// normalized is the comparable form of one candidate path.
type normalized struct {
	full       string
	components []string
}

// Matcher finds the most specific roster identity for a record.
type Matcher struct {
	index *Index
	opts  Options
	memo  *lru.Cache[string, normalized]
}

// NewMatcher builds a matcher over idx.
func NewMatcher(idx *Index, opts Options) (*Matcher, error) {
	if idx == nil {
		idx = &Index{ComponentMap: map[string]string{}}
	}
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	memo, err := lru.New[string, normalized](size)
	if err != nil {
		return nil, err
	}
	return &Matcher{index: idx, opts: opts, memo: memo}, nil
}

// GatherCandidates returns the path-like strings of a record in scan order,
// skipping empty values and the "N/A" placeholder.
func (m *Matcher) GatherCandidates(r *schema.Record) []string {
	var candidates []string
	add := func(v any) {
		s, ok := v.(string)
		if !ok {
			return
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "n/a") {
			return
		}
		candidates = append(candidates, s)
	}

	for _, field := range m.opts.Fields {
		if v, ok := r.Get(field); ok {
			add(v)
		}
	}
	if m.opts.Bucket != "" {
		if bucket, ok := r.Nested(m.opts.Bucket); ok {
			for _, field := range m.opts.BucketFields {
				if v, ok := bucket[field]; ok {
					add(v)
				}
			}
		}
	}
	return candidates
}

// Match returns the best match for a record. Weight is the character length of
// the matched normalized key; only a strictly heavier match replaces the current
// best, so ties keep the first match in scan order.
func (m *Matcher) Match(r *schema.Record) schema.Match {
	var best schema.Match
	if m.index.Empty() {
		return best
	}
	candidates := m.GatherCandidates(r)
	bestWeight := -1

	for _, raw := range candidates {
		n := m.normalize(raw)

		for _, c := range n.components {
			identity, ok := m.index.ComponentMap[c]
			if !ok {
				continue
			}
			if w := utf8.RuneCountInString(c); w > bestWeight {
				bestWeight = w
				best = schema.Match{Identity: identity, Weight: w, Key: c, Kind: schema.ComponentMatch, Candidate: raw}
			}
		}

		for _, entry := range m.index.PathList {
			if entry.Path == "" || !strings.Contains(n.full, entry.Path) {
				continue
			}
			if w := utf8.RuneCountInString(entry.Path); w > bestWeight {
				bestWeight = w
				best = schema.Match{Identity: entry.Identity, Weight: w, Key: entry.Path, Kind: schema.PathMatch, Candidate: raw}
			}
		}
	}

	if m.opts.Logger != nil {
		m.logDecision(candidates, best)
	}
	return best
}

// MatchIdentity returns only the identity of the best match, or "".
func (m *Matcher) MatchIdentity(r *schema.Record) string {
	return m.Match(r).Identity
}

func (m *Matcher) normalize(raw string) normalized {
	if n, ok := m.memo.Get(raw); ok {
		return n
	}
	n := normalized{
		full:       pathnorm.NormalizePath(raw),
		components: pathnorm.NormalizedComponents(raw),
	}
	m.memo.Add(raw, n)
	return n
}

func (m *Matcher) logDecision(candidates []string, best schema.Match) {
	entry := m.opts.Logger.WithField("candidates", candidates)
	if !best.Found() {
		normalizedPaths := make([]string, len(candidates))
		for i, c := range candidates {
			normalizedPaths[i] = pathnorm.NormalizePath(c)
		}
		entry.WithField("normalized", normalizedPaths).Debug("no attribution match")
		return
	}
	entry.WithFields(logrus.Fields{
		"identity": best.Identity,
		"weight":   best.Weight,
		"key":      best.Key,
		"kind":     best.Kind,
	}).Debug("attribution match")
}
