// Package cases implements the filter/facet/pagination pipeline behind the
// case list view.
package cases

import (
	"context"
	"fmt"

	"github.com/cilip-de/polizeischuesse/internal/domain"
	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
)

// Result is the case list response: one page of cases plus totals and the
// facets of the full filtered set.
type Result struct {
	Cases      []domain.Case       `json:"cases"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	Facets     domain.OptionFacets `json:"facets"`
}

// Service handles filtered, faceted, paginated case listings.
type Service struct {
	snapshots       SnapshotProvider
	defaultPageSize int
	maxPageSize     int
}

// New creates a cases service.
func New(snapshots SnapshotProvider) *Service {
	return &Service{
		snapshots:       snapshots,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// List applies the selection to the memoized snapshot and returns one page of
// results with facets computed over the full filtered set.
func (s *Service) List(ctx context.Context, sel *selection.Selection) (Result, error) {
	_, hits, err := s.Matches(ctx, sel)
	if err != nil {
		return Result{}, err
	}

	size := sel.Limit()
	if size <= 0 {
		size = s.defaultPageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}

	total := len(hits)
	totalPages := (total + size - 1) / size

	return Result{
		Cases:      Paginate(hits, sel.Page(), size),
		Total:      total,
		Page:       sel.Page(),
		TotalPages: totalPages,
		Facets:     BuildFacets(hits),
	}, nil
}

// Matches returns the full snapshot case list and the filtered subset for the
// selection. When a usable query is present the base list is the search
// result in rank order; otherwise it is the snapshot in dataset order.
func (s *Service) Matches(ctx context.Context, sel *selection.Selection) (all, hits []domain.Case, err error) {
	snap, err := s.snapshots.Snapshot(ctx, sel.Dataset())
	if err != nil {
		return nil, nil, fmt.Errorf("get snapshot: %w", err)
	}

	base := snap.Cases
	if sel.HasQuery() {
		matches := snap.Index.Lookup(sel.Query())
		base = make([]domain.Case, len(matches))
		for i, m := range matches {
			// Case keys are positions in the snapshot's sort order.
			base[i] = snap.Cases[m.Key]
		}
	}

	return snap.Cases, applyFilters(base, sel), nil
}
