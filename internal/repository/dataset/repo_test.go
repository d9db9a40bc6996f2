package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cilip-de/polizeischuesse/internal/domain"
	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
)

const testCSV = `Fall,Datum,Name,Szenarium,Bundesland,Ort,Alter,Geschlecht,Waffen,Schussort,Schusswechsel,Sondereinsatzbeamte,Verletzte oder getötete Beamte,Vorbereitete Polizeiaktion,Hinweise auf psychische Ausnahmesituation,Hinweise auf Alkohol- und/oder Drogenkonsum,Hinweise auf familiäre oder häusliche Gewalt,Unbeabsichtigte Schussabgabe,Schussort Innenraum,männlich
2021-01,2021-03-14,Hans Müller,Schusswechsel bei Festnahme,Bayern,München,34,männlich,Schusswaffe,Straße,Ja,,,,,,,,,Ja
,2021-04-01,Leere Zeile,Kein Fall,Berlin,Berlin,20,,,,,,,,,,,,,
2020-01,2020-11-20,Peter Krause,Vorbereitete Aktion,Sachsen,Dresden,,männlich,"Messer, Schusswaffe",Wohnung,,Ja,,Ja,,,,,Ja,Ja
`

func testServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_DecodesAndDropsRecordsWithoutFall(t *testing.T) {
	srv := testServer(t, http.StatusOK, testCSV)
	repo := New(Config{BaseURL: srv.URL + "/", CasesPath: "cases.csv"})

	raws, err := repo.Fetch(context.Background(), selection.DatasetCases)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(raws) != 2 {
		t.Fatalf("got %d records, want 2 (row without Fall dropped)", len(raws))
	}
	first := raws[0]
	if first.Fall != "2021-01" || first.Datum != "2021-03-14" || first.Name != "Hans Müller" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.Schusswechsel != "Ja" || first.Maennlich != "Ja" || first.Sondereinsatzbeamte != "" {
		t.Errorf("tag columns decoded wrong: %+v", first)
	}

	second := raws[1]
	if second.Waffen != "Messer, Schusswaffe" {
		t.Errorf("quoted multi-value field = %q", second.Waffen)
	}
	if second.SchussortInnenraum != "Ja" || second.VorbereiteteAktion != "Ja" {
		t.Errorf("tag columns decoded wrong: %+v", second)
	}
}

func TestFetch_TaserUsesItsOwnPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("Fall,Datum\nx,2020-01-01\n"))
	}))
	t.Cleanup(srv.Close)

	repo := New(Config{BaseURL: srv.URL + "/", CasesPath: "cases.csv", TaserPath: "taser.csv"})
	if _, err := repo.Fetch(context.Background(), selection.DatasetTaser); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/taser.csv" {
		t.Errorf("fetched %q, want /taser.csv", gotPath)
	}
}

func TestFetch_UnexpectedStatus(t *testing.T) {
	srv := testServer(t, http.StatusNotFound, "not found")
	repo := New(Config{BaseURL: srv.URL + "/", CasesPath: "cases.csv"})

	if _, err := repo.Fetch(context.Background(), selection.DatasetCases); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFetch_MalformedCSV(t *testing.T) {
	srv := testServer(t, http.StatusOK, "Fall,Datum\n\"unterminated")
	repo := New(Config{BaseURL: srv.URL + "/", CasesPath: "cases.csv"})

	if _, err := repo.Fetch(context.Background(), selection.DatasetCases); err == nil {
		t.Fatal("expected error for malformed csv")
	}
}

func TestFetch_UnknownDataset(t *testing.T) {
	repo := New(Config{BaseURL: "http://localhost/"})

	_, err := repo.Fetch(context.Background(), selection.Dataset("weapons"))
	if !errors.Is(err, domain.ErrUnknownDataset) {
		t.Errorf("err = %v, want ErrUnknownDataset", err)
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := testServer(t, http.StatusOK, testCSV)
	repo := New(Config{BaseURL: srv.URL + "/", CasesPath: "cases.csv"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Fetch(ctx, selection.DatasetCases); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
