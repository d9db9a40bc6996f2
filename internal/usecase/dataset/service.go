// Package dataset provides the memoized, process-wide dataset snapshot.
package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/cilip-de/polizeischuesse/internal/domain"
	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
	"github.com/cilip-de/polizeischuesse/internal/index"
	"github.com/cilip-de/polizeischuesse/internal/metrics"
)

// Snapshot is the immutable result of one dataset load: derived cases in
// date-descending order and the search index built over them. All per-request
// operations read from a snapshot and never mutate it.
type Snapshot struct {
	Cases []domain.Case
	Index *index.Index
}

// Service lazily loads and memoizes one snapshot per dataset variant for the
// lifetime of the process. Concurrent cold-start requests share a single
// in-flight load; a failed load is not cached, so the next access retries.
type Service struct {
	fetch    Fetcher
	indexOpt index.Options
	logger   *zap.Logger

	group     singleflight.Group
	mu        sync.RWMutex
	snapshots map[selection.Dataset]*Snapshot
}

// New creates a snapshot service.
func New(fetch Fetcher, indexOpt index.Options, logger *zap.Logger) *Service {
	return &Service{
		fetch:     fetch,
		indexOpt:  indexOpt,
		logger:    logger,
		snapshots: make(map[selection.Dataset]*Snapshot),
	}
}

// Snapshot returns the memoized snapshot for the dataset, loading it on first
// access. Load failure is fatal for the triggering request only.
func (s *Service) Snapshot(ctx context.Context, ds selection.Dataset) (*Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshots[ds]
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	v, err, _ := s.group.Do(string(ds), func() (any, error) {
		// Another caller may have finished the load between the fast-path
		// check and entering the group.
		s.mu.RLock()
		snap := s.snapshots[ds]
		s.mu.RUnlock()
		if snap != nil {
			return snap, nil
		}
		return s.load(ctx, ds)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Loaded reports whether the dataset snapshot is already memoized.
func (s *Service) Loaded(ds selection.Dataset) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[ds] != nil
}

func (s *Service) load(ctx context.Context, ds selection.Dataset) (*Snapshot, error) {
	start := time.Now()

	raws, err := s.fetch.Fetch(ctx, ds)
	if err != nil {
		metrics.DatasetLoadTotal.WithLabelValues(string(ds), "error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrDatasetUnavailable, err)
	}

	cases := domain.DeriveCases(raws)
	idx := index.New(cases, s.indexOpt)
	snap := &Snapshot{Cases: cases, Index: idx}

	s.mu.Lock()
	s.snapshots[ds] = snap
	s.mu.Unlock()

	elapsed := time.Since(start)
	metrics.DatasetLoadTotal.WithLabelValues(string(ds), "ok").Inc()
	metrics.DatasetLoadDuration.WithLabelValues(string(ds)).Observe(elapsed.Seconds())
	metrics.DatasetCases.WithLabelValues(string(ds)).Set(float64(len(cases)))

	s.logger.Info("dataset loaded",
		zap.String("dataset", string(ds)),
		zap.Int("cases", len(cases)),
		zap.Duration("elapsed", elapsed),
	)
	return snap, nil
}
