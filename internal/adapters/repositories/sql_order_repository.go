package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/db"
	"foodcart-service/internal/platform/obs"
)

// SQL-backed implementation of the OrderRepository port.
type SQLOrderRepository struct{ DB *sql.DB }

func NewSQLOrderRepository(db *sql.DB) *SQLOrderRepository {
	return &SQLOrderRepository{DB: db}
}

// Persist the order and its lines in one transaction.
func (s *SQLOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (err error) {
	defer obs.Time(ctx, "orders.CreateOrder")(&err)

	if s.DB == nil {
		return errors.New("sql order repository: DB is nil")
	}
	if order == nil {
		return errors.New("create order: order is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create order: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var restaurantID sql.NullInt64
	if order.RestaurantID != nil {
		restaurantID = sql.NullInt64{Int64: int64(*order.RestaurantID), Valid: true}
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
	INSERT INTO orders (
		status,
		firstname,
		lastname,
		phonenumber,
		address,
		comment,
		registered_at,
		payment,
		restaurant_id
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id;
	`,
		string(order.Status),
		order.Firstname,
		order.Lastname,
		order.Phonenumber,
		order.Address,
		order.Comment,
		order.RegisteredAt.UTC(),
		string(order.Payment),
		restaurantID,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("create order: insert order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO order_lines (order_id, product_id, price_minor, quantity)
	VALUES ($1, $2, $3, $4);
	`)
	if err != nil {
		return fmt.Errorf("create order: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, l := range order.Lines {
		if _, err := stmt.ExecContext(ctx, id, l.ProductID, l.PriceMinor, l.Quantity); err != nil {
			return fmt.Errorf("create order: insert line product_id=%d: %w", l.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create order: commit: %w", err)
	}

	order.ID = int(id)
	return nil
}

// Return orders that are not processed yet, oldest first, with their lines.
func (s *SQLOrderRepository) ListUnprocessedOrders(ctx context.Context) (_ []*domain.Order, err error) {
	defer obs.Time(ctx, "orders.ListUnprocessedOrders")(&err)

	if s.DB == nil {
		return nil, errors.New("sql order repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		id,
		status,
		firstname,
		lastname,
		phonenumber,
		address,
		comment,
		registered_at,
		called_at,
		delivered_at,
		payment,
		restaurant_id
	FROM orders
	WHERE status <> $1
	ORDER BY id;
	`, string(domain.OrderStatusProcessed))
	if err != nil {
		return nil, fmt.Errorf("list orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, 32)
	byID := make(map[int]*domain.Order)
	for rows.Next() {
		var (
			o                                   domain.Order
			status, payment                     string
			registeredAt, calledAt, deliveredAt db.NullTime
			restaurantID                        sql.NullInt64
		)
		if err := rows.Scan(
			&o.ID, &status, &o.Firstname, &o.Lastname, &o.Phonenumber, &o.Address, &o.Comment,
			&registeredAt, &calledAt, &deliveredAt, &payment, &restaurantID,
		); err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}

		o.Status = domain.OrderStatus(status)
		o.Payment = domain.PaymentMethod(payment)
		o.RegisteredAt = registeredAt.Time
		o.CalledAt = calledAt.Ptr()
		o.DeliveredAt = deliveredAt.Ptr()
		if restaurantID.Valid {
			rid := int(restaurantID.Int64)
			o.RestaurantID = &rid
		}

		order := &o
		orders = append(orders, order)
		byID[order.ID] = order
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	lineRows, err := s.DB.QueryContext(ctx, `
	SELECT
		l.order_id,
		l.product_id,
		l.quantity,
		l.price_minor
	FROM order_lines l
	JOIN orders o ON o.id = l.order_id
	WHERE o.status <> $1
	ORDER BY l.order_id, l.id;
	`, string(domain.OrderStatusProcessed))
	if err != nil {
		return nil, fmt.Errorf("list orders: query order_lines table: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var orderID int
		var l domain.OrderLine
		if err := lineRows.Scan(&orderID, &l.ProductID, &l.Quantity, &l.PriceMinor); err != nil {
			return nil, fmt.Errorf("list orders: scan line row: %w", err)
		}
		// Orders inserted between the two queries are skipped.
		if o, ok := byID[orderID]; ok {
			o.Lines = append(o.Lines, l)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: line row iteration: %w", err)
	}

	return orders, nil
}
