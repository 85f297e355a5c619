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

// SQL-backed implementation of the CatalogRepository port.
type SQLCatalogRepository struct{ DB *sql.DB }

func NewSQLCatalogRepository(db *sql.DB) *SQLCatalogRepository {
	return &SQLCatalogRepository{DB: db}
}

// Return products offered by at least one restaurant.
func (s *SQLCatalogRepository) ListAvailableProducts(ctx context.Context) (_ []domain.Product, err error) {
	defer obs.Time(ctx, "catalog.ListAvailableProducts")(&err)

	if s.DB == nil {
		return nil, errors.New("sql catalog repository: DB is nil")
	}

	query := `
	SELECT
		p.id,
		p.name,
		p.price_minor,
		p.image,
		p.special_status,
		p.description,
		c.id,
		c.name
	FROM products p
	LEFT JOIN product_categories c ON c.id = p.category_id
	WHERE p.id IN (
		SELECT product_id
		FROM restaurant_menu_items
		WHERE availability = TRUE
	)
	ORDER BY p.id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list available products: query products table: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 32)
	for rows.Next() {
		var p domain.Product
		var categoryID sql.NullInt64
		var categoryName sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Name, &p.PriceMinor, &p.Image, &p.SpecialStatus, &p.Description,
			&categoryID, &categoryName,
		); err != nil {
			return nil, fmt.Errorf("list available products: scan row: %w", err)
		}
		if categoryID.Valid {
			p.Category = &domain.ProductCategory{ID: int(categoryID.Int64), Name: categoryName.String}
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list available products: row iteration: %w", err)
	}

	return products, nil
}

// Return available menu entries joined with restaurant and product.
func (s *SQLCatalogRepository) ListAvailableMenuItems(ctx context.Context) (_ []domain.MenuItem, err error) {
	defer obs.Time(ctx, "catalog.ListAvailableMenuItems")(&err)

	if s.DB == nil {
		return nil, errors.New("sql catalog repository: DB is nil")
	}

	query := `
	SELECT
		r.id,
		r.name,
		r.address,
		r.contact_phone,
		p.id,
		p.name,
		p.price_minor,
		m.availability
	FROM restaurant_menu_items m
	JOIN restaurants r ON r.id = m.restaurant_id
	JOIN products p ON p.id = m.product_id
	WHERE m.availability = TRUE
	ORDER BY m.id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list menu items: query restaurant_menu_items table: %w", err)
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0, 64)
	for rows.Next() {
		var m domain.MenuItem
		if err := rows.Scan(
			&m.Restaurant.ID, &m.Restaurant.Name, &m.Restaurant.Address, &m.Restaurant.ContactPhone,
			&m.Product.ID, &m.Product.Name, &m.Product.PriceMinor,
			&m.Available,
		); err != nil {
			return nil, fmt.Errorf("list menu items: scan row: %w", err)
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list menu items: row iteration: %w", err)
	}

	return items, nil
}

// Return the products with the given ids, keyed by id.
func (s *SQLCatalogRepository) ProductsByID(ctx context.Context, ids []int) (_ map[int]domain.Product, err error) {
	defer obs.Time(ctx, "catalog.ProductsByID")(&err)

	if s.DB == nil {
		return nil, errors.New("sql catalog repository: DB is nil")
	}

	seen := make(map[int]struct{}, len(ids))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		args = append(args, id)
	}

	if len(args) == 0 {
		return map[int]domain.Product{}, nil
	}

	// Only the placeholder structure is interpolated; all values remain parameterized.
	query := fmt.Sprintf(`
	SELECT
		id,
		name,
		price_minor,
		image,
		special_status,
		description
	FROM products
	WHERE id IN (%s);
	`, db.Placeholders(1, len(args)))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("products by id: query products table: %w", err)
	}
	defer rows.Close()

	out := make(map[int]domain.Product, len(args))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceMinor, &p.Image, &p.SpecialStatus, &p.Description); err != nil {
			return nil, fmt.Errorf("products by id: scan row: %w", err)
		}
		out[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("products by id: row iteration: %w", err)
	}

	return out, nil
}
