// Package selection holds the validated per-request filter selection.
package selection

import (
	"fmt"
	"unicode/utf8"

	"github.com/cilip-de/polizeischuesse/internal/domain"
)

// Selection parameter limits.
const (
	// MinQueryLength is the minimum full-text query length in characters.
	// Shorter non-empty queries are rejected at every API boundary.
	MinQueryLength = 3
	// MaxQueryLength bounds the full-text query.
	MaxQueryLength = 256
)

// Sort is the result ordering mode.
type Sort string

const (
	// SortRelevance preserves the incoming order: search-rank order when a
	// query was used, dataset order otherwise.
	SortRelevance Sort = "relevance"
	// SortDate orders by raw case date descending.
	SortDate Sort = "date"
)

// IsValid reports whether s is a known sort mode.
func (s Sort) IsValid() bool { return s == SortRelevance || s == SortDate }

// Dataset names a source dataset variant.
type Dataset string

const (
	// DatasetCases is the police shooting dataset.
	DatasetCases Dataset = "cases"
	// DatasetTaser is the taser death dataset.
	DatasetTaser Dataset = "taser"
)

// ParseDataset validates a dataset name from the wire. Empty means cases.
func ParseDataset(name string) (Dataset, error) {
	switch name {
	case "", string(DatasetCases):
		return DatasetCases, nil
	case string(DatasetTaser):
		return DatasetTaser, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownDataset, name)
	}
}

// TagFilter selects cases by one tag flag. Negate inverts the condition
// (the wire-level "no__" prefix, parsed at the transport boundary).
type TagFilter struct {
	Tag    domain.Tag
	Negate bool
}

// Selection is a validated set of filter criteria for one request.
type Selection struct {
	dataset Dataset
	page    int
	limit   int
	query   string
	year    string
	state   string
	place   string
	weapon  string
	age     string
	tags    []TagFilter
	sort    Sort
}

// New validates and normalizes a selection. Defaults: dataset=cases, page=1,
// sort=relevance. limit 0 means "use the configured default page size";
// clamping to the configured maximum happens at pagination time. A non-empty
// query below the minimum length is rejected here rather than silently
// treated as "no query".
func New(
	dataset Dataset,
	page, limit int,
	query string,
	year, state, place, weapon, age string,
	tags []TagFilter,
	sort Sort,
) (Selection, error) {
	if dataset == "" {
		dataset = DatasetCases
	}
	if dataset != DatasetCases && dataset != DatasetTaser {
		return Selection{}, fmt.Errorf("%w: %q", domain.ErrUnknownDataset, dataset)
	}
	if page <= 0 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	if query != "" && utf8.RuneCountInString(query) < MinQueryLength {
		return Selection{}, fmt.Errorf("%w: minimum length is %d characters", domain.ErrQueryTooShort, MinQueryLength)
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Selection{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidSelection, MaxQueryLength)
	}
	if sort == "" {
		sort = SortRelevance
	}
	if !sort.IsValid() {
		return Selection{}, fmt.Errorf("%w: sort %q", domain.ErrInvalidSelection, sort)
	}
	for _, tf := range tags {
		if _, err := domain.ParseTag(string(tf.Tag)); err != nil {
			return Selection{}, err
		}
	}

	return Selection{
		dataset: dataset,
		page:    page,
		limit:   limit,
		query:   query,
		year:    year,
		state:   state,
		place:   place,
		weapon:  weapon,
		age:     age,
		tags:    tags,
		sort:    sort,
	}, nil
}

// Dataset returns the dataset variant.
func (s *Selection) Dataset() Dataset { return s.dataset }

// Page returns the 1-based page number.
func (s *Selection) Page() int { return s.page }

// Limit returns the requested page size (0 = configured default).
func (s *Selection) Limit() int { return s.limit }

// Query returns the raw full-text query.
func (s *Selection) Query() string { return s.query }

// HasQuery reports whether the query is long enough to be usable.
func (s *Selection) HasQuery() bool {
	return utf8.RuneCountInString(s.query) >= MinQueryLength
}

// Year returns the year criterion ("" = no constraint).
func (s *Selection) Year() string { return s.year }

// State returns the state criterion.
func (s *Selection) State() string { return s.state }

// Place returns the place criterion.
func (s *Selection) Place() string { return s.place }

// Weapon returns the weapon substring criterion.
func (s *Selection) Weapon() string { return s.weapon }

// Age returns the age bucket criterion (stringified bucket floor).
func (s *Selection) Age() string { return s.age }

// Tags returns the tag filters.
func (s *Selection) Tags() []TagFilter { return s.tags }

// Sort returns the sort mode.
func (s *Selection) Sort() Sort { return s.sort }
