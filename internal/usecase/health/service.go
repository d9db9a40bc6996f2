package health

import (
	"context"

	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results. Datasets records which datasets
// are resident in memory; a cold dataset does not degrade the status since
// loads happen lazily on first request.
type Report struct {
	Status   Status                 `json:"status"`
	Checks   map[string]CheckResult `json:"checks"`
	Datasets map[string]bool        `json:"datasets"`
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	datasets DatasetChecker
}

// New creates a Service.
func New(db DBPinger, datasets DatasetChecker) *Service {
	return &Service{db: db, datasets: datasets}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["geocode"] = CheckError
	} else {
		checks["geocode"] = CheckOK
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{
		Status: status,
		Checks: checks,
		Datasets: map[string]bool{
			string(selection.DatasetCases): s.datasets.Loaded(selection.DatasetCases),
			string(selection.DatasetTaser): s.datasets.Loaded(selection.DatasetTaser),
		},
	}
}
