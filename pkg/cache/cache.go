package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/uzhroute/uzhroute/pkg/redis"
)

// Manager handles caching operations with JSON serialization
type Manager struct {
	redis *redisclient.Client
}

// NewManager creates a new cache manager
func NewManager(redis *redisclient.Client) *Manager {
	return &Manager{redis: redis}
}

// Get retrieves a cached value and unmarshals it into result. Transient
// Redis failures are retried; a cache miss still surfaces as redis.Nil.
func (m *Manager) Get(ctx context.Context, key string, result interface{}) error {
	data, err := m.redis.RetryableGet(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), result)
}

// Set marshals and caches a value with expiration
func (m *Manager) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return m.redis.RetryableSet(ctx, key, string(data), ttl)
}

// GetOrSet retrieves from cache or executes fn and caches the result
func (m *Manager) GetOrSet(ctx context.Context, key string, ttl time.Duration, result interface{}, fn func() (interface{}, error)) error {
	err := m.Get(ctx, key, result)
	if err == nil {
		return nil // Cache hit
	}

	data, err := fn()
	if err != nil {
		return err
	}

	// Cache the result (non-blocking)
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Set(cacheCtx, key, data, ttl)
	}()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return json.Unmarshal(jsonData, result)
}

// Delete removes a key from cache
func (m *Manager) Delete(ctx context.Context, keys ...string) error {
	return m.redis.RetryableDelete(ctx, keys...)
}

// CacheKeys defines common cache key patterns
type CacheKeys struct{}

var Keys = CacheKeys{}

// Route returns cache key for a calculated route
func (k CacheKeys) Route(startLat, startLon, endLat, endLon float64, profile string) string {
	return fmt.Sprintf("route:%.6f:%.6f:%.6f:%.6f:%s", startLat, startLon, endLat, endLon, profile)
}

// Geocode returns cache key for a geocoding query. The query is lowercased
// so that lookups are case-insensitive.
func (k CacheKeys) Geocode(query string) string {
	return fmt.Sprintf("geocode:%s", strings.ToLower(query))
}

// POI returns cache key for a points-of-interest category lookup
func (k CacheKeys) POI(category string, limit int) string {
	return fmt.Sprintf("poi:%s:%d", category, limit)
}

// SharedRoute returns cache key for a shared route payload
func (k CacheKeys) SharedRoute(token string) string {
	return fmt.Sprintf("share:%s", token)
}

// TTL defines common cache TTL durations
type CacheTTL struct{}

var TTL = CacheTTL{}

func (t CacheTTL) Geocode() time.Duration { return 5 * time.Minute }
func (t CacheTTL) Route() time.Duration   { return 5 * time.Minute }
func (t CacheTTL) POI() time.Duration     { return 15 * time.Minute }
func (t CacheTTL) Share() time.Duration   { return 24 * time.Hour }
