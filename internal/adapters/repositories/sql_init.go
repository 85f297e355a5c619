package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "pgx"
)

var sqliteSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS restaurants (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		contact_phone TEXT NOT NULL DEFAULT ''
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS product_categories (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		category_id INTEGER REFERENCES product_categories(id) ON DELETE SET NULL,
		price_minor INTEGER NOT NULL CHECK (price_minor >= 0),
		image TEXT NOT NULL DEFAULT '',
		special_status BOOLEAN NOT NULL DEFAULT FALSE,
		description TEXT NOT NULL DEFAULT ''
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS restaurant_menu_items (
		id INTEGER PRIMARY KEY,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		availability BOOLEAN NOT NULL DEFAULT TRUE,
		UNIQUE (restaurant_id, product_id)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'M',
		firstname TEXT NOT NULL,
		lastname TEXT NOT NULL,
		phonenumber TEXT NOT NULL,
		address TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		registered_at TIMESTAMP NOT NULL,
		called_at TIMESTAMP,
		delivered_at TIMESTAMP,
		payment TEXT NOT NULL DEFAULT 'C',
		restaurant_id INTEGER REFERENCES restaurants(id) ON DELETE SET NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS order_lines (
		id INTEGER PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		price_minor INTEGER NOT NULL DEFAULT 0 CHECK (price_minor >= 0),
		quantity INTEGER NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS locations (
		id INTEGER PRIMARY KEY,
		address TEXT NOT NULL UNIQUE,
		lat REAL,
		lon REAL,
		query_date DATE NOT NULL DEFAULT CURRENT_DATE
	);
	`,
}

var postgresSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS restaurants (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		contact_phone TEXT NOT NULL DEFAULT ''
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS product_categories (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS products (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL,
		category_id BIGINT REFERENCES product_categories(id) ON DELETE SET NULL,
		price_minor BIGINT NOT NULL CHECK (price_minor >= 0),
		image TEXT NOT NULL DEFAULT '',
		special_status BOOLEAN NOT NULL DEFAULT FALSE,
		description TEXT NOT NULL DEFAULT ''
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS restaurant_menu_items (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		availability BOOLEAN NOT NULL DEFAULT TRUE,
		UNIQUE (restaurant_id, product_id)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS orders (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		status CHAR(1) NOT NULL DEFAULT 'M',
		firstname TEXT NOT NULL,
		lastname TEXT NOT NULL,
		phonenumber TEXT NOT NULL,
		address TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		registered_at TIMESTAMPTZ NOT NULL,
		called_at TIMESTAMPTZ,
		delivered_at TIMESTAMPTZ,
		payment CHAR(1) NOT NULL DEFAULT 'C',
		restaurant_id BIGINT REFERENCES restaurants(id) ON DELETE SET NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS order_lines (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		price_minor BIGINT NOT NULL DEFAULT 0 CHECK (price_minor >= 0),
		quantity INTEGER NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS locations (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		address TEXT NOT NULL UNIQUE,
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION,
		query_date DATE NOT NULL DEFAULT CURRENT_DATE
	);
	`,
}

// Shared by both dialects.
var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_menu_items_availability ON restaurant_menu_items(availability);`,
	`CREATE INDEX IF NOT EXISTS idx_products_special_status ON products(special_status);`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);`,
	`CREATE INDEX IF NOT EXISTS idx_orders_phonenumber ON orders(phonenumber);`,
	`CREATE INDEX IF NOT EXISTS idx_order_lines_order_id ON order_lines(order_id);`,
	`CREATE INDEX IF NOT EXISTS idx_locations_query_date ON locations(query_date);`,
}

// Initialize the database schema for the given dialect.
func InitSchema(ctx context.Context, db *sql.DB, dialect string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	var tables []string
	switch dialect {
	case DialectSQLite:
		tables = sqliteSchema
	case DialectPostgres:
		tables = postgresSchema
	default:
		return fmt.Errorf("init schema: unsupported dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := append(append([]string{}, tables...), indexStatements...)
	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type CatalogSeed struct {
	Categories  []CategorySeed   `json:"categories"`
	Restaurants []RestaurantSeed `json:"restaurants"`
	Products    []ProductSeed    `json:"products"`
	MenuItems   []MenuItemSeed   `json:"menu_items"`
}

type CategorySeed struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type RestaurantSeed struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactPhone string `json:"contact_phone"`
}

type ProductSeed struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	CategoryID    *int   `json:"category_id"`
	PriceMinor    int64  `json:"price_minor"`
	Image         string `json:"image"`
	SpecialStatus bool   `json:"special_status"`
	Description   string `json:"description"`
}

type MenuItemSeed struct {
	RestaurantID int  `json:"restaurant_id"`
	ProductID    int  `json:"product_id"`
	Availability bool `json:"availability"`
}

func (s *CatalogSeed) validate() error {
	for i, c := range s.Categories {
		if c.ID <= 0 {
			return fmt.Errorf("category at index %d: invalid id %d", i+1, c.ID)
		}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("category %d: name cannot be empty", c.ID)
		}
	}
	for i, r := range s.Restaurants {
		if r.ID <= 0 {
			return fmt.Errorf("restaurant at index %d: invalid id %d", i+1, r.ID)
		}
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("restaurant %d: name cannot be empty", r.ID)
		}
	}
	for i, p := range s.Products {
		if p.ID <= 0 {
			return fmt.Errorf("product at index %d: invalid id %d", i+1, p.ID)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("product %d: name cannot be empty", p.ID)
		}
		if p.PriceMinor < 0 {
			return fmt.Errorf("product %d: price cannot be negative", p.ID)
		}
	}
	for i, m := range s.MenuItems {
		if m.RestaurantID <= 0 || m.ProductID <= 0 {
			return fmt.Errorf("menu item at index %d: restaurant_id and product_id are required", i+1)
		}
	}
	return nil
}

// Populate the catalog tables from a JSON file. Rows are upserted by key,
// so seeding twice is harmless.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed catalog: read %q: %w", jsonPath, err)
	}

	var data CatalogSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed catalog: parse json: %w", err)
	}

	return Seed(ctx, db, &data)
}

func Seed(ctx context.Context, db *sql.DB, data *CatalogSeed) error {
	if err := data.validate(); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed catalog: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range data.Categories {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO product_categories (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;
		`, c.ID, strings.TrimSpace(c.Name)); err != nil {
			return fmt.Errorf("seed catalog: insert category id=%d: %w", c.ID, err)
		}
	}

	for _, r := range data.Restaurants {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO restaurants (id, name, address, contact_phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			address = EXCLUDED.address,
			contact_phone = EXCLUDED.contact_phone;
		`, r.ID, strings.TrimSpace(r.Name), r.Address, r.ContactPhone); err != nil {
			return fmt.Errorf("seed catalog: insert restaurant id=%d: %w", r.ID, err)
		}
	}

	for _, p := range data.Products {
		var categoryID sql.NullInt64
		if p.CategoryID != nil {
			categoryID = sql.NullInt64{Int64: int64(*p.CategoryID), Valid: true}
		}

		if _, err := tx.ExecContext(ctx, `
		INSERT INTO products (id, name, category_id, price_minor, image, special_status, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			category_id = EXCLUDED.category_id,
			price_minor = EXCLUDED.price_minor,
			image = EXCLUDED.image,
			special_status = EXCLUDED.special_status,
			description = EXCLUDED.description;
		`, p.ID, strings.TrimSpace(p.Name), categoryID, p.PriceMinor, p.Image, p.SpecialStatus, p.Description); err != nil {
			return fmt.Errorf("seed catalog: insert product id=%d: %w", p.ID, err)
		}
	}

	for _, m := range data.MenuItems {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO restaurant_menu_items (restaurant_id, product_id, availability)
		VALUES ($1, $2, $3)
		ON CONFLICT (restaurant_id, product_id) DO UPDATE
		SET availability = EXCLUDED.availability;
		`, m.RestaurantID, m.ProductID, m.Availability); err != nil {
			return fmt.Errorf("seed catalog: insert menu item restaurant_id=%d product_id=%d: %w", m.RestaurantID, m.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed catalog: commit tx: %w", err)
	}

	return nil
}
