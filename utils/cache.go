// utils/cache.go
package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/NHTran/salesboard_backend/models"
)

// Cache kinds mirrored in Redis
const (
	CacheKindUsers   = "users"
	CacheKindRecords = "sales_records"
)

// DefaultCacheTTL is the freshness window: reads inside it are served from
// the mirror unless the caller forces a refresh.
const DefaultCacheTTL = 5 * time.Minute

func cacheKey(kind string) string {
	return fmt.Sprintf("mirror:%s", kind)
}

func fetchedAtKey(kind string) string {
	return fmt.Sprintf("mirror:%s:fetchedAt", kind)
}

// SaveUsers stores the roster snapshot in the Redis mirror
func SaveUsers(redisClient *redis.Client, users []models.User) error {
	return saveBlob(redisClient, CacheKindUsers, users)
}

// LoadUsers reads the last-known roster from the mirror
func LoadUsers(redisClient *redis.Client) ([]models.User, error) {
	var users []models.User
	if err := loadBlob(redisClient, CacheKindUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveRecords stores the record snapshot in the Redis mirror
func SaveRecords(redisClient *redis.Client, records []models.SalesRecord) error {
	return saveBlob(redisClient, CacheKindRecords, records)
}

// LoadRecords reads the last-known record set from the mirror
func LoadRecords(redisClient *redis.Client) ([]models.SalesRecord, error) {
	var records []models.SalesRecord
	if err := loadBlob(redisClient, CacheKindRecords, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func saveBlob(redisClient *redis.Client, kind string, v interface{}) error {
	if redisClient == nil {
		return fmt.Errorf("Redis client not available")
	}
	ctx := context.Background()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", kind, err)
	}

	// The blob itself never expires; staleness is tracked separately so the
	// mirror still serves as the offline fallback long after the TTL.
	if err := redisClient.Set(ctx, cacheKey(kind), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store %s in Redis: %w", kind, err)
	}
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := redisClient.Set(ctx, fetchedAtKey(kind), now, 0).Err(); err != nil {
		return fmt.Errorf("failed to store %s fetch time: %w", kind, err)
	}
	return nil
}

func loadBlob(redisClient *redis.Client, kind string, v interface{}) error {
	if redisClient == nil {
		return fmt.Errorf("Redis client not available")
	}
	ctx := context.Background()

	data, err := redisClient.Get(ctx, cacheKey(kind)).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("no cached %s", kind)
		}
		return fmt.Errorf("Redis error: %w", err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("failed to decode cached %s: %w", kind, err)
	}
	return nil
}

// IsFresh reports whether the mirror for kind was written within ttl
func IsFresh(redisClient *redis.Client, kind string, ttl time.Duration) bool {
	if redisClient == nil {
		return false
	}
	ctx := context.Background()

	val, err := redisClient.Get(ctx, fetchedAtKey(kind)).Result()
	if err != nil {
		return false
	}
	ms, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false
	}
	return time.Since(time.UnixMilli(ms)) < ttl
}

// HardReset drops every mirror key so the next read goes to the remote store
func HardReset(redisClient *redis.Client) error {
	if redisClient == nil {
		return fmt.Errorf("Redis client not available")
	}
	ctx := context.Background()

	keys := []string{
		cacheKey(CacheKindUsers), fetchedAtKey(CacheKindUsers),
		cacheKey(CacheKindRecords), fetchedAtKey(CacheKindRecords),
	}
	if err := redisClient.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset cache: %w", err)
	}
	return nil
}
