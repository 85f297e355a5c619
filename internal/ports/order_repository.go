package ports

import (
	"context"
	"foodcart-service/internal/domain"
)

// Port: persistence for customer orders.
type OrderRepository interface {
	// Persist the order and its lines atomically, assigning order.ID.
	CreateOrder(ctx context.Context, order *domain.Order) error
	// Retrieve orders not yet processed, with their lines.
	ListUnprocessedOrders(ctx context.Context) ([]*domain.Order, error)
}
