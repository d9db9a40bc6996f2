// Package chi implements the HTTP API on the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cilip-de/polizeischuesse/internal/domain"
	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
	casesuc "github.com/cilip-de/polizeischuesse/internal/usecase/cases"
	geouc "github.com/cilip-de/polizeischuesse/internal/usecase/geo"
	healthuc "github.com/cilip-de/polizeischuesse/internal/usecase/health"
	searchuc "github.com/cilip-de/polizeischuesse/internal/usecase/search"
	statsuc "github.com/cilip-de/polizeischuesse/internal/usecase/stats"
)

// negatePrefix marks an inverted tag filter on the wire.
const negatePrefix = "no__"

type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codeQueryTooShort      errorCode = "query_too_short"
	codeUnknownTag         errorCode = "unknown_tag"
	codeUnknownDataset     errorCode = "unknown_dataset"
	codeInvalidSelection   errorCode = "invalid_selection"
	codeDatasetUnavailable errorCode = "dataset_unavailable"
	codeInternalError      errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the case API.
type Server struct {
	cases         *casesuc.Service
	search        *searchuc.Service
	stats         *statsuc.Service
	geo           *geouc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	cases *casesuc.Service,
	search *searchuc.Service,
	stats *statsuc.Service,
	geo *geouc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		cases:  cases,
		search: search,
		stats:  stats,
		geo:    geo,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrQueryTooShort, http.StatusBadRequest, codeQueryTooShort),
		sentinelHandler(domain.ErrUnknownTag, http.StatusBadRequest, codeUnknownTag),
		sentinelHandler(domain.ErrUnknownDataset, http.StatusBadRequest, codeUnknownDataset),
		sentinelHandler(domain.ErrInvalidSelection, http.StatusBadRequest, codeInvalidSelection),
		sentinelHandler(domain.ErrDatasetUnavailable, http.StatusServiceUnavailable, codeDatasetUnavailable),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/api/v1/cases", s.ListCases)
	r.Get("/api/v1/search", s.SearchCases)
	r.Get("/api/v1/stats", s.Stats)
	r.Get("/api/v1/geo", s.Geo)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ListCases handles GET /api/v1/cases.
func (s *Server) ListCases(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.cases.List(r.Context(), &sel)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type searchResponse struct {
	Query   string               `json:"query"`
	Total   int                  `json:"total"`
	Matches []searchuc.CaseMatch `json:"matches"`
}

// SearchCases handles GET /api/v1/search.
func (s *Server) SearchCases(w http.ResponseWriter, r *http.Request) {
	ds, err := selection.ParseDataset(r.URL.Query().Get("dataset"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	query := r.URL.Query().Get("q")

	matches, err := s.search.Search(r.Context(), ds, query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Total:   len(matches),
		Matches: matches,
	})
}

// Stats handles GET /api/v1/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	report, err := s.stats.Report(r.Context(), &sel)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Geo handles GET /api/v1/geo.
func (s *Server) Geo(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.geo.Markers(r.Context(), &sel)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// selectionFromQuery parses and validates the shared filter parameters.
func selectionFromQuery(r *http.Request) (selection.Selection, error) {
	q := r.URL.Query()

	ds, err := selection.ParseDataset(q.Get("dataset"))
	if err != nil {
		return selection.Selection{}, err
	}

	page, err := intParam(q.Get("page"), "page")
	if err != nil {
		return selection.Selection{}, err
	}
	limit, err := intParam(q.Get("limit"), "limit")
	if err != nil {
		return selection.Selection{}, err
	}

	return selection.New(
		ds,
		page, limit,
		q.Get("q"),
		q.Get("year"), q.Get("state"), q.Get("place"), q.Get("weapon"), q.Get("age"),
		tagFilters(q.Get("tags")),
		selection.Sort(q.Get("sort")),
	)
}

// intParam parses an optional integer query parameter. Empty means 0.
func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidSelection, name)
	}
	return v, nil
}

// tagFilters parses the comma-separated tags parameter. A no__ prefix inverts
// the filter. Tag names are validated later by selection.New.
func tagFilters(raw string) []selection.TagFilter {
	if raw == "" {
		return nil
	}
	var out []selection.TagFilter
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, negate := strings.CutPrefix(part, negatePrefix)
		out = append(out, selection.TagFilter{Tag: domain.Tag(name), Negate: negate})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrQueryTooShort,
		domain.ErrUnknownTag,
		domain.ErrUnknownDataset,
		domain.ErrInvalidSelection,
		domain.ErrDatasetUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
