// Package index provides the full-text search index over case names and
// scenario descriptions.
package index

import (
	"sort"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"

	"github.com/cilip-de/polizeischuesse/internal/domain"
)

// Mode selects the matching strategy.
type Mode string

const (
	// ModeExact requires substring containment, location-independent. This
	// is the default.
	ModeExact Mode = "exact"
	// ModeFuzzy enables typo-tolerant matching.
	ModeFuzzy Mode = "fuzzy"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool { return m == ModeExact || m == ModeFuzzy }

// Field names a searchable case field.
type Field string

const (
	FieldName      Field = "Name"
	FieldSzenarium Field = "Szenarium"
)

// nameWeight ranks name hits above scenario hits in exact mode.
const nameWeight = 2

// Span is a half-open [Start, End) character-offset range of a match,
// in runes, for highlighting.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FieldMatch carries the matched field and its match spans.
type FieldMatch struct {
	Field Field  `json:"field"`
	Spans []Span `json:"spans"`
}

// Match is one matched case with per-field spans and a relevance score.
type Match struct {
	Key    int          `json:"key"`
	Fields []FieldMatch `json:"fields"`
	Score  int          `json:"score"`
}

// Options configures index construction.
type Options struct {
	Mode          Mode
	CaseSensitive bool
}

type entry struct {
	key  int
	name string
	szen string
	// folded copies for case-insensitive matching; aliases of the originals
	// when the index is case-sensitive.
	nameFolded string
	szenFolded string
}

// Index is an immutable full-text index over a case snapshot. Lookups are
// safe for concurrent use.
type Index struct {
	entries       []entry
	mode          Mode
	caseSensitive bool
}

// New builds an index over the given cases. Build once per snapshot.
func New(cases []domain.Case, opts Options) *Index {
	mode := opts.Mode
	if !mode.IsValid() {
		mode = ModeExact
	}

	entries := make([]entry, len(cases))
	for i, c := range cases {
		e := entry{key: c.Key, name: c.Name, szen: c.Szenarium}
		if opts.CaseSensitive {
			e.nameFolded, e.szenFolded = e.name, e.szen
		} else {
			e.nameFolded, e.szenFolded = fold(e.name), fold(e.szen)
		}
		entries[i] = e
	}

	return &Index{entries: entries, mode: mode, caseSensitive: opts.CaseSensitive}
}

// Len returns the number of indexed cases.
func (idx *Index) Len() int { return len(idx.entries) }

// Lookup returns matches for the query, ranked by relevance (score descending,
// ties broken by case key). Minimum query length is a boundary contract of the
// callers, not enforced here.
func (idx *Index) Lookup(query string) []Match {
	if query == "" {
		return nil
	}
	if idx.mode == ModeFuzzy {
		return idx.lookupFuzzy(query)
	}
	return idx.lookupExact(query)
}

func (idx *Index) lookupExact(query string) []Match {
	folded := query
	if !idx.caseSensitive {
		folded = fold(query)
	}

	var matches []Match
	for i := range idx.entries {
		e := &idx.entries[i]
		m := Match{Key: e.key}

		if spans := substringSpans(e.nameFolded, folded); len(spans) > 0 {
			m.Fields = append(m.Fields, FieldMatch{Field: FieldName, Spans: spans})
			m.Score += nameWeight * len(spans)
		}
		if spans := substringSpans(e.szenFolded, folded); len(spans) > 0 {
			m.Fields = append(m.Fields, FieldMatch{Field: FieldSzenarium, Spans: spans})
			m.Score += len(spans)
		}

		if len(m.Fields) > 0 {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Key < matches[j].Key
	})
	return matches
}

// fieldSource adapts one field of all entries to fuzzy.Source.
type fieldSource struct {
	entries []entry
	name    bool
}

func (s fieldSource) String(i int) string {
	if s.name {
		return s.entries[i].nameFolded
	}
	return s.entries[i].szenFolded
}

func (s fieldSource) Len() int { return len(s.entries) }

func (idx *Index) lookupFuzzy(query string) []Match {
	if !idx.caseSensitive {
		query = fold(query)
	}

	byKey := make(map[int]*Match)
	for _, field := range []Field{FieldName, FieldSzenarium} {
		src := fieldSource{entries: idx.entries, name: field == FieldName}
		for _, fm := range fuzzy.FindFrom(query, src) {
			e := &idx.entries[fm.Index]
			text := e.szenFolded
			if field == FieldName {
				text = e.nameFolded
			}

			m, ok := byKey[e.key]
			if !ok {
				m = &Match{Key: e.key}
				byKey[e.key] = m
			}
			m.Fields = append(m.Fields, FieldMatch{
				Field: field,
				Spans: spansFromIndexes(text, fm.MatchedIndexes),
			})
			m.Score += fm.Score
		}
	}

	matches := make([]Match, 0, len(byKey))
	for _, m := range byKey {
		matches = append(matches, *m)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Key < matches[j].Key
	})
	return matches
}

// fold lowercases rune by rune. Unlike strings.ToLower it never changes the
// rune count (U+0130 folds to a single 'i'), so offsets computed on folded
// text stay valid for the original.
func fold(s string) string {
	return strings.Map(unicode.ToLower, s)
}

// substringSpans returns the rune-offset spans of every non-overlapping
// occurrence of query in text.
func substringSpans(text, query string) []Span {
	if query == "" {
		return nil
	}
	queryRunes := len([]rune(query))

	var spans []Span
	offset := 0     // byte offset into text
	runeOffset := 0 // rune offset of text[offset:]
	for {
		i := strings.Index(text[offset:], query)
		if i < 0 {
			break
		}
		runeOffset += len([]rune(text[offset : offset+i]))
		spans = append(spans, Span{Start: runeOffset, End: runeOffset + queryRunes})
		runeOffset += queryRunes
		offset += i + len(query)
	}
	return spans
}

// spansFromIndexes converts the fuzzy library's matched byte indexes into
// rune-offset spans, merging adjacent characters into runs.
func spansFromIndexes(text string, indexes []int) []Span {
	if len(indexes) == 0 {
		return nil
	}

	// Map byte offset -> rune offset once.
	runeAt := make(map[int]int, len(text))
	r := 0
	for b := range text {
		runeAt[b] = r
		r++
	}

	var spans []Span
	cur := Span{Start: runeAt[indexes[0]], End: runeAt[indexes[0]] + 1}
	for _, b := range indexes[1:] {
		ro := runeAt[b]
		if ro == cur.End {
			cur.End++
			continue
		}
		spans = append(spans, cur)
		cur = Span{Start: ro, End: ro + 1}
	}
	return append(spans, cur)
}
