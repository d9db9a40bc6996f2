// Package geocode provides the read-only city coordinate lookup table.
package geocode

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cilip-de/polizeischuesse/internal/domain/geo"
)

// Repo reads the places table from a local SQLite database. The table is
// hand-maintained alongside the dataset and only ever read.
type Repo struct {
	db *sql.DB
}

// Open opens the geocode database.
func Open(path string) (*Repo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open geocode db: %w", err)
	}
	return &Repo{db: db}, nil
}

// NewWithDB wraps an existing database handle (used by tests).
func NewWithDB(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Close closes the database handle.
func (r *Repo) Close() error {
	return r.db.Close()
}

// Ping checks database availability.
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Table loads all resolvable locations keyed by geo.LocationKey. Rows with
// out-of-range coordinates are skipped.
func (r *Repo) Table(ctx context.Context) (map[string]geo.Coordinate, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT place, state, lat, lon FROM places")
	if err != nil {
		return nil, fmt.Errorf("query places: %w", err)
	}
	defer rows.Close()

	table := make(map[string]geo.Coordinate)
	for rows.Next() {
		var place, state string
		var lat, lon float64
		if err := rows.Scan(&place, &state, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		if !geo.ValidateCoordinates(lat, lon) {
			continue
		}
		table[geo.LocationKey(place, state)] = geo.Coordinate{Lat: lat, Lon: lon}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate places: %w", err)
	}
	return table, nil
}
