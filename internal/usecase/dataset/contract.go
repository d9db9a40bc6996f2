package dataset

import (
	"context"

	"github.com/cilip-de/polizeischuesse/internal/domain"
	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
)

// Fetcher downloads and decodes the raw records of a dataset variant.
type Fetcher interface {
	Fetch(ctx context.Context, ds selection.Dataset) ([]domain.RawRecord, error)
}
