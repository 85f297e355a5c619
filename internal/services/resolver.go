package services

import (
	"context"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/ports"
	"log"
	"time"

	"golang.org/x/sync/singleflight"
)

// Resolver turns addresses into coordinates, consulting known cache entries
// first and geocoding (then caching) on a miss.
//
// Only successful lookups are cached. A cache entry with null coordinates
// is a hit that resolves as not found; it is never re-fetched.
type Resolver struct {
	geocoder ports.Geocoder
	cache    ports.LocationCache
	now      func() time.Time
	group    singleflight.Group
}

func NewResolver(geocoder ports.Geocoder, cache ports.LocationCache) (*Resolver, error) {
	if geocoder == nil {
		return nil, errors.New("new resolver: geocoder must be non-nil")
	}
	if cache == nil {
		return nil, errors.New("new resolver: cache must be non-nil")
	}
	return &Resolver{geocoder: geocoder, cache: cache, now: time.Now}, nil
}

type resolved struct {
	coords domain.Coordinates
	found  bool
}

// Resolve returns coordinates for address. known is the caller's snapshot
// of the cache, scanned for an exact match before any network call.
func (r *Resolver) Resolve(
	ctx context.Context,
	address string,
	known []domain.Location,
) (domain.Coordinates, bool, error) {
	for _, loc := range known {
		if loc.Address == address {
			c, ok := loc.Coordinates()
			return c, ok, nil
		}
	}

	// Concurrent misses for the same address inside this process share
	// one geocode call and one insert. The shared call outlives any single
	// caller's cancellation; each caller still stops waiting on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(address, func() (any, error) {
		return r.fetchAndStore(shared, address)
	})

	select {
	case <-ctx.Done():
		return domain.Coordinates{}, false, fmt.Errorf("resolve %q: %w", address, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.Coordinates{}, false, res.Err
		}
		v := res.Val.(resolved)
		return v.coords, v.found, nil
	}
}

func (r *Resolver) fetchAndStore(ctx context.Context, address string) (resolved, error) {
	coords, found, err := r.geocoder.Geocode(ctx, address)
	if err != nil {
		return resolved{}, fmt.Errorf("resolve %q: %w", address, err)
	}
	if !found {
		return resolved{}, nil
	}

	inserted, err := r.cache.InsertIfAbsent(ctx, domain.NewLocation(address, coords, r.now()))
	if err != nil {
		return resolved{}, fmt.Errorf("resolve %q: cache coordinates: %w", address, err)
	}
	if !inserted {
		// Another resolver cached this address first; the fresh
		// coordinates are still valid for this request.
		log.Printf("location cache conflict address=%q: already cached", address)
	}

	return resolved{coords: coords, found: true}, nil
}
