package ports

import (
	"context"
	"foodcart-service/internal/domain"
)

// Port: persisted address -> coordinates cache. Entries are append-only.
type LocationCache interface {
	// Return every cached entry.
	List(ctx context.Context) ([]domain.Location, error)
	// Store loc unless an entry for loc.Address already exists.
	// inserted is false when another writer got there first; the existing
	// entry is left untouched and no error is returned.
	InsertIfAbsent(ctx context.Context, loc domain.Location) (inserted bool, err error)
}
