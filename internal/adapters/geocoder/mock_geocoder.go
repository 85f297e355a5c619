package geocoder

import (
	"context"
	"foodcart-service/internal/domain"
	"sync"
)

// MockGeocoder answers from a fixed address table and counts calls.
// Addresses missing from the table geocode as not found.
type MockGeocoder struct {
	mu     sync.Mutex
	m      map[string]domain.Coordinates
	errs   map[string]error
	calls  map[string]int
	OnCall func(address string)
}

func NewMockGeocoder(places map[string]domain.Coordinates) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(places))
	for k, v := range places {
		m[k] = v
	}
	return &MockGeocoder{m: m, errs: map[string]error{}, calls: map[string]int{}}
}

// FailWith makes lookups of address return err.
func (g *MockGeocoder) FailWith(address string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[address] = err
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, bool, error) {
	g.mu.Lock()
	g.calls[address]++
	hook := g.OnCall
	err := g.errs[address]
	c, ok := g.m[address]
	g.mu.Unlock()

	if hook != nil {
		hook(address)
	}
	if err != nil {
		return domain.Coordinates{}, false, err
	}
	return c, ok, nil
}

// Calls returns how many times address was looked up.
func (g *MockGeocoder) Calls(address string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[address]
}

// TotalCalls returns the number of lookups across all addresses.
func (g *MockGeocoder) TotalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}
