package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// DriverCacheTTL is short because availability flips frequently.
const DriverCacheTTL = 30 * time.Second

const driverCachePrefix = "cache:driver:"

// CachedDriver represents a cached driver profile.
type CachedDriver struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	VehicleModel  string    `json:"vehicle_model"`
	VehicleNumber string    `json:"vehicle_number"`
	Rating        string    `json:"rating"`
	IsActive      bool      `json:"is_active"`
	ActivatedAt   time.Time `json:"activated_at"`
}

// GetDriver retrieves a driver from cache. A cache miss returns (nil, nil).
func (s *CacheStore) GetDriver(ctx context.Context, userID string) (*CachedDriver, error) {
	key := driverCachePrefix + userID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var driver CachedDriver
	if err := json.Unmarshal(data, &driver); err != nil {
		return nil, err
	}
	return &driver, nil
}

// SetDriver stores a driver in cache, keyed by owning user ID.
func (s *CacheStore) SetDriver(ctx context.Context, driver *CachedDriver) error {
	key := driverCachePrefix + driver.UserID
	data, err := json.Marshal(driver)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, DriverCacheTTL).Err()
}

// InvalidateDriver removes a driver's cache entry.
func (s *CacheStore) InvalidateDriver(ctx context.Context, userID string) error {
	return s.client.Del(ctx, driverCachePrefix+userID).Err()
}
