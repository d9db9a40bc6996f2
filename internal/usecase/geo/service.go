// Package geo joins filtered cases against the geocoding table to produce
// map markers.
package geo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cilip-de/polizeischuesse/internal/domain"
	geodom "github.com/cilip-de/polizeischuesse/internal/domain/geo"
	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
)

// Result holds the markers for a selection. TotalLocations counts the whole
// geocoding table, not the matched subset.
type Result struct {
	Markers        []domain.Marker `json:"markers"`
	TotalLocations int             `json:"totalLocations"`
}

// Service computes map markers for filtered case sets.
type Service struct {
	filter CaseFilter
	coords CoordinateSource

	mu    sync.Mutex
	table map[string]geodom.Coordinate
}

// New creates a geo service.
func New(filter CaseFilter, coords CoordinateSource) *Service {
	return &Service{filter: filter, coords: coords}
}

// Markers aggregates the filtered cases by place and state and attaches
// coordinates from the geocoding table. Locations without a geocode entry are
// silently dropped. Pagination fields of the selection are ignored.
func (s *Service) Markers(ctx context.Context, sel *selection.Selection) (Result, error) {
	_, hits, err := s.filter.Matches(ctx, sel)
	if err != nil {
		return Result{}, fmt.Errorf("filter cases: %w", err)
	}

	table, err := s.lookupTable(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load geocode table: %w", err)
	}

	type location struct {
		place, state string
	}
	counts := make(map[location]int)
	for _, c := range hits {
		counts[location{c.Place, c.State}]++
	}

	markers := make([]domain.Marker, 0, len(counts))
	for loc, n := range counts {
		coord, ok := table[geodom.LocationKey(loc.place, loc.state)]
		if !ok {
			continue
		}
		markers = append(markers, domain.NewMarker(loc.place, loc.state, coord, n))
	}
	sort.Slice(markers, func(i, j int) bool {
		if markers[i].Count != markers[j].Count {
			return markers[i].Count > markers[j].Count
		}
		if markers[i].Place != markers[j].Place {
			return markers[i].Place < markers[j].Place
		}
		return markers[i].State < markers[j].State
	})

	return Result{Markers: markers, TotalLocations: len(table)}, nil
}

// lookupTable memoizes the geocoding table on first success. Failures are not
// cached so a later request retries the load.
func (s *Service) lookupTable(ctx context.Context) (map[string]geodom.Coordinate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table != nil {
		return s.table, nil
	}
	table, err := s.coords.Table(ctx)
	if err != nil {
		return nil, err
	}
	s.table = table
	return table, nil
}
