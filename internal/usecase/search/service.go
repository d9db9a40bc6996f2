// Package search implements the full-text search boundary.
package search

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/cilip-de/polizeischuesse/internal/domain"
	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
	"github.com/cilip-de/polizeischuesse/internal/index"
	"github.com/cilip-de/polizeischuesse/internal/metrics"
)

// CaseMatch is one matched case with its match spans for highlighting.
type CaseMatch struct {
	Case    domain.Case        `json:"case"`
	Matches []index.FieldMatch `json:"matches"`
	Score   int                `json:"score"`
}

// Service handles full-text search requests.
type Service struct {
	snapshots SnapshotProvider
}

// New creates a search service.
func New(snapshots SnapshotProvider) *Service {
	return &Service{snapshots: snapshots}
}

// Search returns the cases matching the query in rank order. Queries shorter
// than the minimum length are rejected here, at the boundary; the index
// itself does not enforce it.
func (s *Service) Search(ctx context.Context, ds selection.Dataset, query string) ([]CaseMatch, error) {
	if utf8.RuneCountInString(query) < selection.MinQueryLength {
		metrics.SearchQueriesTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: minimum length is %d characters", domain.ErrQueryTooShort, selection.MinQueryLength)
	}

	snap, err := s.snapshots.Snapshot(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	matches := snap.Index.Lookup(query)
	out := make([]CaseMatch, len(matches))
	for i, m := range matches {
		out[i] = CaseMatch{
			Case:    snap.Cases[m.Key],
			Matches: m.Fields,
			Score:   m.Score,
		}
	}

	metrics.SearchQueriesTotal.WithLabelValues("ok").Inc()
	return out, nil
}
