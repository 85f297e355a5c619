package ports

import (
	"context"
	"foodcart-service/internal/domain"
)

// Port: read access to restaurants, products and menu availability.
type CatalogRepository interface {
	// Retrieve products offered by at least one restaurant right now.
	ListAvailableProducts(ctx context.Context) ([]domain.Product, error)
	// Retrieve menu entries flagged available, joined with restaurant and product.
	ListAvailableMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	// Retrieve the products with the given ids, keyed by id. Unknown ids are absent.
	ProductsByID(ctx context.Context, ids []int) (map[int]domain.Product, error)
}
