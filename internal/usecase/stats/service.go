// Package stats aggregates per-year case counts for the chart view.
package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/cilip-de/polizeischuesse/internal/domain"
	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
)

// CaseFilter produces the full case list and the filtered subset for a
// selection.
type CaseFilter interface {
	Matches(ctx context.Context, sel *selection.Selection) (all, hits []domain.Case, err error)
}

// Report holds per-year totals for the full dataset and the filtered subset.
type Report struct {
	YearCounts []domain.YearCount `json:"yearCounts"`
	TotalCases int                `json:"totalCases"`
	TotalHits  int                `json:"totalHits"`
}

// Service computes the stats aggregation.
type Service struct {
	filter CaseFilter
}

// New creates a stats service.
func New(filter CaseFilter) *Service {
	return &Service{filter: filter}
}

// Report aggregates totals per distinct year of the full dataset. Every such
// year appears even with zero hits; years absent from the dataset are never
// synthesized. Pagination fields of the selection are ignored.
func (s *Service) Report(ctx context.Context, sel *selection.Selection) (Report, error) {
	all, hits, err := s.filter.Matches(ctx, sel)
	if err != nil {
		return Report{}, fmt.Errorf("filter cases: %w", err)
	}

	totals := make(map[int]int)
	for _, c := range all {
		totals[c.Year]++
	}
	hitCounts := make(map[int]int)
	for _, c := range hits {
		hitCounts[c.Year]++
	}

	years := make([]int, 0, len(totals))
	for y := range totals {
		years = append(years, y)
	}
	sort.Ints(years)

	counts := make([]domain.YearCount, len(years))
	for i, y := range years {
		counts[i] = domain.YearCount{Year: y, Total: totals[y], Hits: hitCounts[y]}
	}

	return Report{
		YearCounts: counts,
		TotalCases: len(all),
		TotalHits:  len(hits),
	}, nil
}
