package search

import (
	"context"

	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
	"github.com/cilip-de/polizeischuesse/internal/usecase/dataset"
)

// SnapshotProvider serves the memoized dataset snapshot.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, ds selection.Dataset) (*dataset.Snapshot, error)
}
