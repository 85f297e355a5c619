package main

import (
	"context"
	"database/sql"
	"fmt"
	"foodcart-service/internal/adapters/cache"
	"foodcart-service/internal/adapters/geocoder"
	"foodcart-service/internal/adapters/repositories"
	"foodcart-service/internal/api"
	"foodcart-service/internal/config"
	"foodcart-service/internal/platform/db"
	"foodcart-service/internal/ports"
	"foodcart-service/internal/services"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, Yandex) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireGeocoder(); err != nil {
		log.Fatal(err)
	}

	policy, err := services.ParseMatchPolicy(cfg.MatchPolicy)
	if err != nil {
		log.Fatal(err)
	}

	sqlDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(sqlDB, cfg.DBDriver, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	locations, closeCache, err := newLocationCache(cfg, sqlDB)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	yandex, err := geocoder.NewYandexGeocoder(geocoder.Options{
		APIKey:  cfg.Geocoder.APIKey,
		BaseURL: cfg.Geocoder.BaseURL,
		Timeout: cfg.Geocoder.Timeout,
	})
	if err != nil {
		log.Fatal(err)
	}

	resolver, err := services.NewResolver(yandex, locations)
	if err != nil {
		log.Fatal(err)
	}

	catalog := repositories.NewSQLCatalogRepository(sqlDB)
	orders := repositories.NewSQLOrderRepository(sqlDB)

	intake, err := services.NewOrderIntake(catalog, orders, cfg.PhoneRegion)
	if err != nil {
		log.Fatal(err)
	}

	assignments, err := services.NewAssignmentService(orders, catalog, locations, resolver, policy)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(api.Dependencies{
		Catalog:     catalog,
		Intake:      intake,
		Assignments: assignments,
	})

	// The write timeout leaves room for cold-cache geocoding of every candidate restaurant.
	log.Printf("Server listening addr=:%s db_driver=%s location_cache=%s match_policy=%s",
		cfg.Port, cfg.DBDriver, cfg.LocationCache.Backend, policy)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func initAndSeed(sqlDB *sql.DB, dialect, seedPath string) error {
	ctx := context.Background()

	if err := repositories.InitSchema(ctx, sqlDB, dialect); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(ctx, sqlDB, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// newLocationCache returns the configured address cache and a release func.
func newLocationCache(cfg *config.Config, sqlDB *sql.DB) (ports.LocationCache, func(), error) {
	if cfg.LocationCache.Backend != config.CacheRedis {
		return cache.NewSQLLocationCache(sqlDB), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.LocationCache.RedisAddr,
		DB:   cfg.LocationCache.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("location cache: ping redis at %s: %w", cfg.LocationCache.RedisAddr, err)
	}

	return cache.NewRedisLocationCache(rdb), func() { _ = rdb.Close() }, nil
}
