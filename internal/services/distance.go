package services

import (
	"context"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/ports"

	"github.com/jftuga/geodist"
)

// DistanceKm returns the geodesic distance between a and b in kilometres,
// using Vincenty's formula on the WGS-84 ellipsoid.
// Nearly antipodal points, where Vincenty fails to converge, fall back to
// the haversine great-circle distance.
func DistanceKm(a, b domain.Coordinates) float64 {
	if a == b {
		return 0
	}

	p1 := geodist.Coord{Lat: a.Lat, Lon: a.Lon}
	p2 := geodist.Coord{Lat: b.Lat, Lon: b.Lon}

	_, km, err := geodist.VincentyDistance(p1, p2)
	if err != nil {
		_, km = geodist.HaversineDistance(p1, p2)
	}
	return km
}

// DistanceCalculator geocodes both ends directly, without the address cache.
type DistanceCalculator struct {
	geocoder ports.Geocoder
}

func NewDistanceCalculator(geocoder ports.Geocoder) (*DistanceCalculator, error) {
	if geocoder == nil {
		return nil, errors.New("new distance calculator: geocoder must be non-nil")
	}
	return &DistanceCalculator{geocoder: geocoder}, nil
}

// CalculateDistance returns the distance in kilometres between two
// addresses. found is false when either address cannot be geocoded.
func (d *DistanceCalculator) CalculateDistance(ctx context.Context, from, to string) (float64, bool, error) {
	fromCoords, fromFound, err := d.geocoder.Geocode(ctx, from)
	if err != nil {
		return 0, false, fmt.Errorf("calculate distance: geocode origin %q: %w", from, err)
	}

	toCoords, toFound, err := d.geocoder.Geocode(ctx, to)
	if err != nil {
		return 0, false, fmt.Errorf("calculate distance: geocode destination %q: %w", to, err)
	}

	if !fromFound || !toFound {
		return 0, false, nil
	}

	return DistanceKm(fromCoords, toCoords), true, nil
}
