package ports

import (
	"context"
	"foodcart-service/internal/domain"
)

// Contract for resolving a free-text address to coordinates.
type Geocoder interface {
	// Return the most relevant coordinates for address.
	// found is false (with a nil error) when the service knows no such place.
	Geocode(ctx context.Context, address string) (coords domain.Coordinates, found bool, err error)
}
