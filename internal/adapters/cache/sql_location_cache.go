package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/db"
	"foodcart-service/internal/platform/obs"
	"strings"
)

// SQLLocationCache is a SQL-backed cache mapping addresses to coordinates.
// Address keys are stored exactly as given.
type SQLLocationCache struct {
	DB *sql.DB
}

func NewSQLLocationCache(db *sql.DB) *SQLLocationCache {
	return &SQLLocationCache{DB: db}
}

// Return every cached location.
func (s *SQLLocationCache) List(ctx context.Context) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "location.cache.List")(&err)

	if s.DB == nil {
		return nil, errors.New("location cache: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		address,
		lat,
		lon,
		query_date
	FROM locations
	ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list location cache: query locations table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Location, 0, 64)
	for rows.Next() {
		var addr string
		var lat, lon sql.NullFloat64
		var queryDate db.NullTime
		if err := rows.Scan(&addr, &lat, &lon, &queryDate); err != nil {
			return nil, fmt.Errorf("list location cache: scan rows: %w", err)
		}

		loc := domain.Location{Address: addr, QueryDate: queryDate.Time}
		if lat.Valid {
			v := lat.Float64
			loc.Lat = &v
		}
		if lon.Valid {
			v := lon.Float64
			loc.Lon = &v
		}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list location cache: row iteration: %w", err)
	}

	return out, nil
}

// Store loc unless the address is already cached. The existing row wins.
func (s *SQLLocationCache) InsertIfAbsent(ctx context.Context, loc domain.Location) (_ bool, err error) {
	defer obs.Time(ctx, "location.cache.InsertIfAbsent")(&err)

	if s.DB == nil {
		return false, errors.New("location cache: db is nil")
	}

	if strings.TrimSpace(loc.Address) == "" {
		return false, errors.New("insert location cache: empty address key")
	}

	var lat, lon sql.NullFloat64
	if loc.Lat != nil {
		lat = sql.NullFloat64{Float64: *loc.Lat, Valid: true}
	}
	if loc.Lon != nil {
		lon = sql.NullFloat64{Float64: *loc.Lon, Valid: true}
	}

	res, err := s.DB.ExecContext(ctx, `
	INSERT INTO locations (
		address,
		lat,
		lon,
		query_date
	)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (address) DO NOTHING;
	`, loc.Address, lat, lon, loc.QueryDate.UTC())
	if err != nil {
		return false, fmt.Errorf("insert location cache address=%q: %w", loc.Address, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert location cache address=%q: rows affected: %w", loc.Address, err)
	}

	return n == 1, nil
}
