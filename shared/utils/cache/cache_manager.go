package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"orghub-backend/shared/config"
)

// CacheManager wraps the Redis client used for shared rate-limit counters.
// Redis is optional: when it is not configured the in-memory limiter stands
// alone and limits only hold per instance.
type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

var globalCacheManager *CacheManager

// InitCacheManager initializes the global cache manager. Returns nil without
// connecting when REDIS_HOST is unset.
func InitCacheManager() error {
	cfg := config.GetConfig()

	if cfg.RedisHost == "" {
		log.Println("Warning: REDIS_HOST not set, rate limit counters are per-instance only")
		return nil
	}

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	log.Println("✅ Redis connection established successfully")
	return nil
}

// GetCacheManager returns the global cache manager, nil when Redis is not configured
func GetCacheManager() *CacheManager {
	return globalCacheManager
}

// IncrementCounter increments the counter for a key and returns the new value.
// The window TTL is set when the key is first created.
func (cm *CacheManager) IncrementCounter(key string, window time.Duration) (int64, error) {
	count, err := cm.client.Incr(cm.ctx, key).Result()
	if err != nil {
		return 0, err
	}

	if count == 1 {
		if err := cm.client.Expire(cm.ctx, key, window).Err(); err != nil {
			return count, err
		}
	}

	return count, nil
}

// SetBlock marks a key as blocked for the given duration
func (cm *CacheManager) SetBlock(key string, duration time.Duration) error {
	return cm.client.Set(cm.ctx, key+":blocked", "1", duration).Err()
}

// IsBlocked reports whether a key is currently blocked
func (cm *CacheManager) IsBlocked(key string) (bool, error) {
	exists, err := cm.client.Exists(cm.ctx, key+":blocked").Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// ResetCounter removes the counter for a key
func (cm *CacheManager) ResetCounter(key string) error {
	return cm.client.Del(cm.ctx, key).Err()
}

// Close closes the Redis connection
func (cm *CacheManager) Close() error {
	if cm.client != nil {
		return cm.client.Close()
	}
	return nil
}
