package geocode

import (
	"context"
	"database/sql"
	"testing"

	"github.com/cilip-de/polizeischuesse/internal/domain/geo"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE places (place TEXT, state TEXT, lat REAL, lon REAL)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func insertPlace(t *testing.T, db *sql.DB, place, state string, lat, lon float64) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO places (place, state, lat, lon) VALUES (?, ?, ?, ?)`, place, state, lat, lon)
	if err != nil {
		t.Fatalf("insert place: %v", err)
	}
}

func TestTable(t *testing.T) {
	db := testDB(t)
	insertPlace(t, db, "München", "Bayern", 48.137, 11.575)
	insertPlace(t, db, "Berlin", "Berlin", 52.52, 13.405)

	repo := NewWithDB(db)
	table, err := repo.Table(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(table) != 2 {
		t.Fatalf("got %d entries, want 2", len(table))
	}
	coord, ok := table[geo.LocationKey("München", "Bayern")]
	if !ok {
		t.Fatal("München/Bayern missing from table")
	}
	if coord.Lat != 48.137 || coord.Lon != 11.575 {
		t.Errorf("coordinate = %+v", coord)
	}
}

func TestTable_SkipsInvalidCoordinates(t *testing.T) {
	db := testDB(t)
	insertPlace(t, db, "Gut", "Bayern", 48.0, 11.0)
	insertPlace(t, db, "Kaputt", "Bayern", 123.0, 11.0)
	insertPlace(t, db, "AuchKaputt", "Bayern", 48.0, -200.0)

	repo := NewWithDB(db)
	table, err := repo.Table(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(table) != 1 {
		t.Fatalf("got %d entries, want 1 (invalid rows skipped)", len(table))
	}
	if _, ok := table[geo.LocationKey("Gut", "Bayern")]; !ok {
		t.Error("valid row missing")
	}
}

func TestTable_SamePlaceDifferentState(t *testing.T) {
	db := testDB(t)
	insertPlace(t, db, "Neustadt", "Bayern", 49.0, 11.0)
	insertPlace(t, db, "Neustadt", "Sachsen", 51.0, 14.0)

	repo := NewWithDB(db)
	table, err := repo.Table(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(table) != 2 {
		t.Errorf("got %d entries, want 2 (state is part of the key)", len(table))
	}
}

func TestPing(t *testing.T) {
	repo := NewWithDB(testDB(t))
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}
