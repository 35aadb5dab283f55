package cache

import (
	"context"
	"errors"
	"fmt"
	"road-status-service/internal/domain"
	"road-status-service/internal/platform/obs"
	"road-status-service/internal/ports"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const unresolvedMarker = "-"

// RedisSessionCache keeps per-record geocoding outcomes in Redis so they
// survive restarts and are shared between server instances.
type RedisSessionCache struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisSessionCache(client *redis.Client, ttl time.Duration) *RedisSessionCache {
	return &RedisSessionCache{Client: client, Prefix: "roadstatus:geocode:", TTL: ttl}
}

func (r *RedisSessionCache) Get(ctx context.Context, key string) (ports.SessionEntry, bool, error) {
	v, err := r.Client.Get(ctx, r.Prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		obs.CacheLookupsTotal.WithLabelValues("session_redis", "miss").Inc()
		return ports.SessionEntry{}, false, nil
	}
	if err != nil {
		return ports.SessionEntry{}, false, fmt.Errorf("session cache get %q: %w", key, err)
	}

	entry, err := decodeEntry(v)
	if err != nil {
		return ports.SessionEntry{}, false, fmt.Errorf("session cache get %q: %w", key, err)
	}

	obs.CacheLookupsTotal.WithLabelValues("session_redis", "hit").Inc()
	return entry, true, nil
}

func (r *RedisSessionCache) Put(ctx context.Context, key string, entry ports.SessionEntry) error {
	if err := r.Client.Set(ctx, r.Prefix+key, encodeEntry(entry), r.TTL).Err(); err != nil {
		return fmt.Errorf("session cache put %q: %w", key, err)
	}
	return nil
}

func encodeEntry(e ports.SessionEntry) string {
	if e.Unresolved {
		return unresolvedMarker
	}
	return e.Coordinates.String()
}

func decodeEntry(v string) (ports.SessionEntry, error) {
	if v == unresolvedMarker {
		return ports.SessionEntry{Unresolved: true}, nil
	}
	latStr, lonStr, ok := strings.Cut(v, ",")
	if !ok {
		return ports.SessionEntry{}, fmt.Errorf("malformed entry %q", v)
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return ports.SessionEntry{}, fmt.Errorf("malformed entry %q", v)
	}
	return ports.SessionEntry{Coordinates: domain.Coordinates{Lat: lat, Lon: lon}}, nil
}

// MemorySessionCache is the in-process session cache used when Redis is not
// configured. Entries live for the process lifetime.
type MemorySessionCache struct {
	mu      sync.RWMutex
	entries map[string]ports.SessionEntry
}

func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{entries: map[string]ports.SessionEntry{}}
}

func (m *MemorySessionCache) Get(_ context.Context, key string) (ports.SessionEntry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if ok {
		obs.CacheLookupsTotal.WithLabelValues("session_memory", "hit").Inc()
	} else {
		obs.CacheLookupsTotal.WithLabelValues("session_memory", "miss").Inc()
	}
	return e, ok, nil
}

func (m *MemorySessionCache) Put(_ context.Context, key string, entry ports.SessionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry
	return nil
}
