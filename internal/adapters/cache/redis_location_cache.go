package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const locationKeyPrefix = "location:"

// RedisLocationCache keeps one key per address. Keys never expire,
// matching the append-only SQL table.
type RedisLocationCache struct {
	rdb *redis.Client
}

func NewRedisLocationCache(rdb *redis.Client) *RedisLocationCache {
	return &RedisLocationCache{rdb: rdb}
}

type redisLocation struct {
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	QueryDate string   `json:"query_date"`
}

// Return every cached location.
func (r *RedisLocationCache) List(ctx context.Context) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "location.redis.List")(&err)

	if r.rdb == nil {
		return nil, errors.New("location cache: redis client is nil")
	}

	keys := make([]string, 0, 64)
	iter := r.rdb.Scan(ctx, 0, locationKeyPrefix+"*", 256).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list location cache: scan keys: %w", err)
	}

	if len(keys) == 0 {
		return []domain.Location{}, nil
	}

	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list location cache: mget: %w", err)
	}

	out := make([]domain.Location, 0, len(keys))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// Key vanished between SCAN and MGET.
			continue
		}

		loc, err := decodeRedisLocation(strings.TrimPrefix(keys[i], locationKeyPrefix), raw)
		if err != nil {
			return nil, fmt.Errorf("list location cache: %w", err)
		}
		out = append(out, loc)
	}

	return out, nil
}

// Store loc unless the address is already cached (SETNX).
func (r *RedisLocationCache) InsertIfAbsent(ctx context.Context, loc domain.Location) (_ bool, err error) {
	defer obs.Time(ctx, "location.redis.InsertIfAbsent")(&err)

	if r.rdb == nil {
		return false, errors.New("location cache: redis client is nil")
	}

	if strings.TrimSpace(loc.Address) == "" {
		return false, errors.New("insert location cache: empty address key")
	}

	payload, err := json.Marshal(redisLocation{
		Lat:       loc.Lat,
		Lon:       loc.Lon,
		QueryDate: loc.QueryDate.UTC().Format(time.DateOnly),
	})
	if err != nil {
		return false, fmt.Errorf("insert location cache address=%q: marshal: %w", loc.Address, err)
	}

	ok, err := r.rdb.SetNX(ctx, locationKeyPrefix+loc.Address, payload, 0).Result()
	if err != nil {
		return false, fmt.Errorf("insert location cache address=%q: %w", loc.Address, err)
	}

	return ok, nil
}

func decodeRedisLocation(address, raw string) (domain.Location, error) {
	var rl redisLocation
	if err := json.Unmarshal([]byte(raw), &rl); err != nil {
		return domain.Location{}, fmt.Errorf("decode address=%q: %w", address, err)
	}

	var queryDate time.Time
	if rl.QueryDate != "" {
		d, err := time.Parse(time.DateOnly, rl.QueryDate)
		if err != nil {
			return domain.Location{}, fmt.Errorf("decode address=%q: query date: %w", address, err)
		}
		queryDate = d
	}

	return domain.Location{
		Address:   address,
		Lat:       rl.Lat,
		Lon:       rl.Lon,
		QueryDate: queryDate,
	}, nil
}
