package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"

	CacheSQL   = "sql"
	CacheRedis = "redis"
)

// Config is built once at process start and passed to constructors.
// Nothing below cmd/ reads the environment directly.
type Config struct {
	Port        string
	DBDriver    string
	DatabaseURL string
	SeedPath    string
	PhoneRegion string
	MatchPolicy string

	Geocoder      GeocoderConfig
	LocationCache LocationCacheConfig
}

type GeocoderConfig struct {
	BaseURL string
	APIKey  string
	// Zero means no client-side timeout (transport defaults only).
	Timeout time.Duration
}

type LocationCacheConfig struct {
	Backend   string
	RedisAddr string
	RedisDB   int
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := getDuration("GEOCODER_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := &Config{
		Port:        Get("PORT", "8080"),
		DBDriver:    Get("DB_DRIVER", DriverSQLite),
		DatabaseURL: Get("DATABASE_URL", "data/app.db"),
		SeedPath:    Get("SEED_PATH", "data/seeds/catalog.json"),
		PhoneRegion: Get("PHONE_REGION", "RU"),
		MatchPolicy: Get("MATCH_POLICY", "first-line"),
		Geocoder: GeocoderConfig{
			BaseURL: Get("GEOCODER_BASE_URL", "https://geocode-maps.yandex.ru/1.x"),
			APIKey:  strings.TrimSpace(os.Getenv("YANDEX_GEOCODER_API_TOKEN")),
			Timeout: timeout,
		},
		LocationCache: LocationCacheConfig{
			Backend:   Get("LOCATION_CACHE", CacheSQL),
			RedisAddr: Get("REDIS_ADDR", "localhost:6379"),
			RedisDB:   redisDB,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}

	switch c.LocationCache.Backend {
	case CacheSQL, CacheRedis:
	default:
		return fmt.Errorf("LOCATION_CACHE must be %q or %q, got %q", CacheSQL, CacheRedis, c.LocationCache.Backend)
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL must be non-empty")
	}

	return nil
}

// RequireGeocoder reports an error when the geocoding API token is missing.
// Commands that never geocode can skip this check.
func (c *Config) RequireGeocoder() error {
	if c.Geocoder.APIKey == "" {
		return errors.New("YANDEX_GEOCODER_API_TOKEN is required")
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", key, v, err)
	}
	return n, nil
}
