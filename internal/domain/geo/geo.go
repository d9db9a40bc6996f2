// Package geo holds coordinate types for the map view.
package geo

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// LocationKey builds the lookup key for a (place, state) pair. The separator
// cannot occur in either field.
func LocationKey(place, state string) string {
	return place + "\x1f" + state
}
