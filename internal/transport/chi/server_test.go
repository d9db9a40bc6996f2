package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cilip-de/polizeischuesse/internal/domain"
	geodom "github.com/cilip-de/polizeischuesse/internal/domain/geo"
	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
	"github.com/cilip-de/polizeischuesse/internal/index"
	casesuc "github.com/cilip-de/polizeischuesse/internal/usecase/cases"
	datasetuc "github.com/cilip-de/polizeischuesse/internal/usecase/dataset"
	geouc "github.com/cilip-de/polizeischuesse/internal/usecase/geo"
	healthuc "github.com/cilip-de/polizeischuesse/internal/usecase/health"
	searchuc "github.com/cilip-de/polizeischuesse/internal/usecase/search"
	statsuc "github.com/cilip-de/polizeischuesse/internal/usecase/stats"
)

type stubSnapshots struct {
	snap *datasetuc.Snapshot
	err  error
}

func (s *stubSnapshots) Snapshot(_ context.Context, _ selection.Dataset) (*datasetuc.Snapshot, error) {
	return s.snap, s.err
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(_ context.Context) error { return s.err }

type stubDatasets struct{}

func (stubDatasets) Loaded(_ selection.Dataset) bool { return true }

type stubCoords struct{ table map[string]geodom.Coordinate }

func (s *stubCoords) Table(_ context.Context) (map[string]geodom.Coordinate, error) {
	return s.table, nil
}

func testSnapshot() *datasetuc.Snapshot {
	raws := []domain.RawRecord{
		{Fall: "2021-01", Datum: "2021-03-14", Name: "Hans Müller", Szenarium: "Schusswechsel bei Festnahme",
			Bundesland: "Bayern", Ort: "München", Alter: "34", Maennlich: "Ja"},
		{Fall: "2020-01", Datum: "2020-11-20", Name: "Peter Krause", Szenarium: "Vorbereitete Aktion",
			Bundesland: "Sachsen", Ort: "Dresden", Alter: "52"},
	}
	cases := domain.DeriveCases(raws)
	return &datasetuc.Snapshot{
		Cases: cases,
		Index: index.New(cases, index.Options{Mode: index.ModeExact}),
	}
}

func testRouter(t *testing.T, snapshots *stubSnapshots) chi.Router {
	t.Helper()

	casesSvc := casesuc.New(snapshots)
	searchSvc := searchuc.New(snapshots)
	statsSvc := statsuc.New(casesSvc)
	geoSvc := geouc.New(casesSvc, &stubCoords{table: map[string]geodom.Coordinate{
		geodom.LocationKey("München", "Bayern"):  {Lat: 48.137, Lon: 11.575},
		geodom.LocationKey("Dresden", "Sachsen"): {Lat: 51.05, Lon: 13.737},
	}})
	healthSvc := healthuc.New(&stubPinger{}, stubDatasets{})

	server := NewServer(casesSvc, searchSvc, statsSvc, geoSvc, healthSvc, zap.NewNop())
	r := chi.NewRouter()
	server.Register(r)
	return r
}

func doGet(t *testing.T, r chi.Router, url string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, body
}

func TestListCases_OK(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/api/v1/cases")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if body["total"] != float64(2) {
		t.Errorf("total = %v, want 2", body["total"])
	}
	if body["page"] != float64(1) {
		t.Errorf("page = %v, want 1", body["page"])
	}
	if _, ok := body["totalPages"]; !ok {
		t.Error("response lacks totalPages")
	}
	if _, ok := body["facets"]; !ok {
		t.Error("response lacks facets")
	}

	cases, ok := body["cases"].([]any)
	if !ok || len(cases) != 2 {
		t.Fatalf("cases = %v", body["cases"])
	}
	first := cases[0].(map[string]any)
	for _, field := range []string{"key", "fall", "date", "year", "dayOfWeek", "beforeReunification", "east", "age", "men"} {
		if _, ok := first[field]; !ok {
			t.Errorf("case lacks field %q", field)
		}
	}
}

func TestListCases_Filtered(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/api/v1/cases?year=2021&state=Bayern")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["total"] != float64(1) {
		t.Errorf("total = %v, want 1", body["total"])
	}
}

func TestListCases_NegatedTagParam(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/api/v1/cases?tags=no__men")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["total"] != float64(1) {
		t.Errorf("total = %v, want 1", body["total"])
	}
	cases := body["cases"].([]any)
	if cases[0].(map[string]any)["fall"] != "2020-01" {
		t.Errorf("unexpected case: %v", cases[0])
	}
}

func TestListCases_UnknownTag(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/api/v1/cases?tags=bogus")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["code"] != "unknown_tag" {
		t.Errorf("code = %v, want unknown_tag", body["code"])
	}
}

func TestListCases_BadPageParam(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/api/v1/cases?page=two")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["code"] != "invalid_selection" {
		t.Errorf("code = %v, want invalid_selection", body["code"])
	}
}

func TestListCases_UnknownDataset(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/api/v1/cases?dataset=weapons")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["code"] != "unknown_dataset" {
		t.Errorf("code = %v, want unknown_dataset", body["code"])
	}
}

func TestListCases_DatasetUnavailable(t *testing.T) {
	r := testRouter(t, &stubSnapshots{err: domain.ErrDatasetUnavailable})

	rec, body := doGet(t, r, "/api/v1/cases")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if body["code"] != "dataset_unavailable" {
		t.Errorf("code = %v, want dataset_unavailable", body["code"])
	}
}

func TestListCases_ShortQueryRejected(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/api/v1/cases?q=Be")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["code"] != "query_too_short" {
		t.Errorf("code = %v, want query_too_short", body["code"])
	}

	rec, _ = doGet(t, r, "/api/v1/cases?q=Ber")
	if rec.Code != http.StatusOK {
		t.Errorf("status for three-character query = %d, want 200", rec.Code)
	}
}

func TestStats_ShortQueryRejected(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/api/v1/stats?q=Be")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["code"] != "query_too_short" {
		t.Errorf("code = %v, want query_too_short", body["code"])
	}
}

func TestSearch_ShortQuery(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/api/v1/search?q=ab")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["code"] != "query_too_short" {
		t.Errorf("code = %v, want query_too_short", body["code"])
	}
}

func TestSearch_MinimumLengthAccepted(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, _ := doGet(t, r, "/api/v1/search?q=abc")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSearch_ReturnsMatchesWithSpans(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/api/v1/search?q=Müller")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["query"] != "Müller" {
		t.Errorf("query = %v", body["query"])
	}
	if body["total"] != float64(1) {
		t.Fatalf("total = %v, want 1", body["total"])
	}

	matches := body["matches"].([]any)
	first := matches[0].(map[string]any)
	if _, ok := first["case"]; !ok {
		t.Error("match lacks case")
	}
	fields := first["matches"].([]any)
	spans := fields[0].(map[string]any)["spans"].([]any)
	if len(spans) == 0 {
		t.Error("match lacks spans")
	}
}

func TestStats_OK(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/api/v1/stats?year=2021")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	counts := body["yearCounts"].([]any)
	if len(counts) != 2 {
		t.Fatalf("yearCounts = %v, want both dataset years", counts)
	}
	first := counts[0].(map[string]any)
	// Years ascending; 2020 has zero hits under the 2021 filter but stays.
	if first["year"] != float64(2020) || first["hits"] != float64(0) || first["total"] != float64(1) {
		t.Errorf("first year count = %v", first)
	}
	if body["totalCases"] != float64(2) || body["totalHits"] != float64(1) {
		t.Errorf("totals = %v/%v", body["totalCases"], body["totalHits"])
	}
}

func TestGeo_OK(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/api/v1/geo")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	markers := body["markers"].([]any)
	if len(markers) != 2 {
		t.Fatalf("markers = %v", markers)
	}
	if body["totalLocations"] != float64(2) {
		t.Errorf("totalLocations = %v, want 2", body["totalLocations"])
	}
	first := markers[0].(map[string]any)
	for _, field := range []string{"place", "state", "lat", "lon", "count"} {
		if _, ok := first[field]; !ok {
			t.Errorf("marker lacks field %q", field)
		}
	}
}

func TestHealth_OK(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	rec, body := doGet(t, r, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestMetrics_Exposed(t *testing.T) {
	r := testRouter(t, &stubSnapshots{snap: testSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("metrics body is empty")
	}
}
