package domain

import "time"

// Location is a persisted address geocode cache entry.
//
// Address is the exact key as submitted: matching is case- and
// whitespace-sensitive. Lat and Lon are nullable; an entry with either one
// missing is still a cache hit but carries no usable coordinates.
// Entries are append-only and never refreshed.
type Location struct {
	Address   string
	Lat       *float64
	Lon       *float64
	QueryDate time.Time
}

// NewLocation builds a cache entry for freshly geocoded coordinates.
func NewLocation(address string, c Coordinates, queriedAt time.Time) Location {
	lat, lon := c.Lat, c.Lon
	y, m, d := queriedAt.Date()
	return Location{
		Address:   address,
		Lat:       &lat,
		Lon:       &lon,
		QueryDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

// Coordinates returns the stored pair, or false when either value is null.
func (l Location) Coordinates() (Coordinates, bool) {
	if l.Lat == nil || l.Lon == nil {
		return Coordinates{}, false
	}
	return Coordinates{Lat: *l.Lat, Lon: *l.Lon}, true
}
