package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"gmaps_reviews/internal/adapters/observability"
	"gmaps_reviews/internal/domain"
)

const keyPrefix = "gmr:"

// envelope is the stored cache value. Expiry is enforced by Redis TTL and
// re-checked from Timestamp at read time in case the store fails to purge.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	TTLSec    int             `json:"ttl_sec"`
}

type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var env envelope
	if err := json.Unmarshal(v, &env); err != nil {
		return false, err
	}
	if expired(env, time.Now()) {
		observability.ObserveCache("redis", "miss")
		_ = r.c.Del(ctx, key).Err()
		return false, nil
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(env.Data, dst)
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b, _ := json.Marshal(envelope{Data: data, Timestamp: time.Now().Unix(), TTLSec: ttlSec})
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, key).Err()
}

// Clear scans the service prefix and deletes entries one by one. Not atomic;
// fine at this volume (one entry per configured business URL).
func (r *Cache) Clear(ctx context.Context) (int, error) {
	deleted := 0
	iter := r.c.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.c.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, err
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}
	observability.ObserveCache("redis", "clear")
	return deleted, nil
}

func (r *Cache) Stats(ctx context.Context) (domain.CacheStats, error) {
	var stats domain.CacheStats
	now := time.Now()
	iter := r.c.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := r.c.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return stats, err
		}
		stats.TotalItems++
		stats.TotalSize += int64(len(raw))
		var env envelope
		if json.Unmarshal(raw, &env) == nil && !expired(env, now) {
			stats.ValidItems++
		} else {
			stats.ExpiredItems++
		}
	}
	return stats, iter.Err()
}

func expired(env envelope, now time.Time) bool {
	if env.TTLSec <= 0 {
		return false
	}
	return now.Unix()-env.Timestamp > int64(env.TTLSec)
}
