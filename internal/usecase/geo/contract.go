package geo

import (
	"context"

	"github.com/cilip-de/polizeischuesse/internal/domain"
	geodom "github.com/cilip-de/polizeischuesse/internal/domain/geo"
	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
)

// CaseFilter produces the full case list and the filtered subset for a
// selection.
type CaseFilter interface {
	Matches(ctx context.Context, sel *selection.Selection) (all, hits []domain.Case, err error)
}

// CoordinateSource serves the geocoding lookup table keyed by
// geo.LocationKey.
type CoordinateSource interface {
	Table(ctx context.Context) (map[string]geodom.Coordinate, error)
}
