package services

import (
	"context"
	"foodcart-service/internal/domain"
	"sync"
)

// memoryCache is an in-process LocationCache for service tests.
type memoryCache struct {
	mu      sync.Mutex
	entries []domain.Location
	inserts int
	// forceConflict makes every insert report that another writer won.
	forceConflict bool
}

func (c *memoryCache) List(ctx context.Context) ([]domain.Location, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Location, len(c.entries))
	copy(out, c.entries)
	return out, nil
}

func (c *memoryCache) InsertIfAbsent(ctx context.Context, loc domain.Location) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inserts++
	if c.forceConflict {
		return false, nil
	}
	for _, e := range c.entries {
		if e.Address == loc.Address {
			return false, nil
		}
	}
	c.entries = append(c.entries, loc)
	return true, nil
}

type fakeCatalog struct {
	products  map[int]domain.Product
	menuItems []domain.MenuItem
}

func (c *fakeCatalog) ListAvailableProducts(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	for _, p := range c.products {
		out = append(out, p)
	}
	return out, nil
}

func (c *fakeCatalog) ListAvailableMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	return c.menuItems, nil
}

func (c *fakeCatalog) ProductsByID(ctx context.Context, ids []int) (map[int]domain.Product, error) {
	out := map[int]domain.Product{}
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeOrders struct {
	created []*domain.Order
	pending []*domain.Order
	nextID  int
}

func (r *fakeOrders) CreateOrder(ctx context.Context, order *domain.Order) error {
	r.nextID++
	order.ID = r.nextID
	r.created = append(r.created, order)
	return nil
}

func (r *fakeOrders) ListUnprocessedOrders(ctx context.Context) ([]*domain.Order, error) {
	return r.pending, nil
}

func floatPtr(f float64) *float64 { return &f }
