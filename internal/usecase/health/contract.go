package health

import (
	"context"

	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
)

// DBPinger checks geocode database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// DatasetChecker reports which datasets have been loaded into memory.
type DatasetChecker interface {
	Loaded(ds selection.Dataset) bool
}
