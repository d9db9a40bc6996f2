package domain

import "github.com/cilip-de/polizeischuesse/internal/domain/geo"

// Marker is a map marker for one (place, state) location with its case count.
type Marker struct {
	Place string  `json:"place"`
	State string  `json:"state"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Count int     `json:"count"`
}

// NewMarker joins a location count against its resolved coordinate.
func NewMarker(place, state string, coord geo.Coordinate, count int) Marker {
	return Marker{
		Place: place,
		State: state,
		Lat:   coord.Lat,
		Lon:   coord.Lon,
		Count: count,
	}
}
