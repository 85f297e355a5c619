package services

import (
	"context"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/obs"
	"foodcart-service/internal/ports"
	"sort"
)

// RankedRestaurant is a candidate restaurant with its distance to the order
// address. DistanceKm is nil when either address could not be geocoded.
type RankedRestaurant struct {
	Restaurant domain.Restaurant
	DistanceKm *float64
}

type OrderAssignment struct {
	Order       *domain.Order
	Restaurants []RankedRestaurant
}

// AssignmentService lists unprocessed orders with the restaurants that
// could cook them, nearest first.
type AssignmentService struct {
	orders   ports.OrderRepository
	catalog  ports.CatalogRepository
	cache    ports.LocationCache
	resolver *Resolver
	policy   MatchPolicy
}

func NewAssignmentService(
	orders ports.OrderRepository,
	catalog ports.CatalogRepository,
	cache ports.LocationCache,
	resolver *Resolver,
	policy MatchPolicy,
) (*AssignmentService, error) {
	if orders == nil || catalog == nil || cache == nil {
		return nil, errors.New("new assignment service: repositories must be non-nil")
	}
	if resolver == nil {
		return nil, errors.New("new assignment service: resolver must be non-nil")
	}
	if policy == "" {
		policy = MatchFirstLine
	}
	return &AssignmentService{
		orders:   orders,
		catalog:  catalog,
		cache:    cache,
		resolver: resolver,
		policy:   policy,
	}, nil
}

func (s *AssignmentService) List(ctx context.Context) (out []OrderAssignment, err error) {
	defer obs.Time(ctx, "list_assignments")(&err)

	orders, err := s.orders.ListUnprocessedOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	available, err := s.catalog.ListAvailableMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	// One cache snapshot serves every lookup in this request.
	known, err := s.cache.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	matches := MatchRestaurants(orders, available, s.policy)
	out = make([]OrderAssignment, 0, len(matches))

	// Addresses resolved earlier in this request are not in the snapshot.
	lookup := memoResolve(s.resolver, known)

	for _, m := range matches {
		ranked, err := s.rank(ctx, m, lookup)
		if err != nil {
			return nil, fmt.Errorf("list assignments: order %d: %w", m.Order.ID, err)
		}
		out = append(out, OrderAssignment{Order: m.Order, Restaurants: ranked})
	}

	return out, nil
}

type resolveFunc func(ctx context.Context, address string) (domain.Coordinates, bool, error)

func memoResolve(r *Resolver, known []domain.Location) resolveFunc {
	seen := make(map[string]resolved)
	return func(ctx context.Context, address string) (domain.Coordinates, bool, error) {
		if res, ok := seen[address]; ok {
			return res.coords, res.found, nil
		}
		c, found, err := r.Resolve(ctx, address, known)
		if err != nil {
			return domain.Coordinates{}, false, err
		}
		seen[address] = resolved{coords: c, found: found}
		return c, found, nil
	}
}

func (s *AssignmentService) rank(ctx context.Context, m OrderMatch, lookup resolveFunc) ([]RankedRestaurant, error) {
	ranked := make([]RankedRestaurant, 0, len(m.SelectedRestaurants))
	if len(m.SelectedRestaurants) == 0 {
		return ranked, nil
	}

	orderCoords, orderFound, err := lookup(ctx, m.Order.Address)
	if err != nil {
		return nil, err
	}

	for _, r := range m.SelectedRestaurants {
		rr := RankedRestaurant{Restaurant: r}

		restCoords, restFound, err := lookup(ctx, r.Address)
		if err != nil {
			return nil, err
		}
		if orderFound && restFound {
			km := DistanceKm(restCoords, orderCoords)
			rr.DistanceKm = &km
		}

		ranked = append(ranked, rr)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch {
		case a.DistanceKm == nil && b.DistanceKm == nil:
			return a.Restaurant.ID < b.Restaurant.ID
		case a.DistanceKm == nil:
			return false
		case b.DistanceKm == nil:
			return true
		case *a.DistanceKm != *b.DistanceKm:
			return *a.DistanceKm < *b.DistanceKm
		default:
			return a.Restaurant.ID < b.Restaurant.ID
		}
	})

	return ranked, nil
}
