package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"orghub-backend/shared/utils/cache"
)

// RateLimit - per-key limit state
type RateLimit struct {
	Count      int
	ResetAt    time.Time
	LastAccess time.Time
	Blocked    bool
	BlockUntil time.Time
}

// RateLimiter - rate limiting manager
type RateLimiter struct {
	store       map[string]*RateLimit
	mutex       sync.RWMutex
	cleanupTime time.Duration
}

// RateLimitConfig - rate limiter configuration
type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

// NewRateLimiter - creates a new RateLimiter instance
func NewRateLimiter(cleanupTime time.Duration) *RateLimiter {
	limiter := &RateLimiter{
		store:       make(map[string]*RateLimit),
		cleanupTime: cleanupTime,
	}

	go limiter.cleanup()

	return limiter
}

// cleanup - remove stale records
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTime)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		now := time.Now()
		for key, limit := range rl.store {
			if now.Sub(limit.LastAccess) > 24*time.Hour {
				delete(rl.store, key)
			}
		}
		rl.mutex.Unlock()
	}
}

// isAllowed - checks the request against the limit, preferring the shared
// Redis counters when Redis is configured so limits hold across instances
func (rl *RateLimiter) isAllowed(key string, config RateLimitConfig) bool {
	if cm := cache.GetCacheManager(); cm != nil {
		if allowed, ok := rl.isAllowedShared(cm, key, config); ok {
			return allowed
		}
		// Redis failure falls through to the in-memory path
	}

	return rl.isAllowedLocal(key, config)
}

// isAllowedShared - Redis-backed counter check; ok is false on Redis errors
func (rl *RateLimiter) isAllowedShared(cm *cache.CacheManager, key string, config RateLimitConfig) (allowed, ok bool) {
	blocked, err := cm.IsBlocked("ratelimit:" + key)
	if err != nil {
		return false, false
	}
	if blocked {
		return false, true
	}

	count, err := cm.IncrementCounter("ratelimit:"+key, config.TimeWindow)
	if err != nil {
		return false, false
	}

	if count > int64(config.MaxRequests) {
		if err := cm.SetBlock("ratelimit:"+key, config.BlockDuration); err != nil {
			return false, false
		}
		return false, true
	}

	return true, true
}

// isAllowedLocal - in-memory sliding window with block duration
func (rl *RateLimiter) isAllowedLocal(key string, config RateLimitConfig) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	limit, exists := rl.store[key]

	if !exists {
		rl.store[key] = &RateLimit{
			Count:      1,
			ResetAt:    now.Add(config.TimeWindow),
			LastAccess: now,
			Blocked:    false,
		}
		return true
	}

	if limit.Blocked {
		if now.After(limit.BlockUntil) {
			limit.Blocked = false
			limit.Count = 1
			limit.ResetAt = now.Add(config.TimeWindow)
			limit.LastAccess = now
			return true
		}
		return false
	}

	if now.After(limit.ResetAt) {
		limit.Count = 1
		limit.ResetAt = now.Add(config.TimeWindow)
		limit.LastAccess = now
		return true
	}

	if limit.Count >= config.MaxRequests {
		limit.Blocked = true
		limit.BlockUntil = now.Add(config.BlockDuration)
		limit.LastAccess = now
		return false
	}

	limit.Count++
	limit.LastAccess = now
	return true
}

// LoginRateLimitMiddleware - sign-in endpoint rate limiting middleware
func (rl *RateLimiter) LoginRateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := "login:" + clientIP

		if !rl.isAllowed(key, config) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many login attempts",
				"message": "Too many login attempts. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RegistrationRateLimitMiddleware - sign-up endpoint rate limiting middleware
func (rl *RateLimiter) RegistrationRateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := "register:" + clientIP

		if !rl.isAllowed(key, config) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many registration attempts",
				"message": "Too many registration attempts. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// PasswordResetRateLimitMiddleware - password reset endpoint rate limiting middleware
func (rl *RateLimiter) PasswordResetRateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := "password-reset:" + clientIP

		if !rl.isAllowed(key, config) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many password reset attempts",
				"message": "Too many password reset attempts. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
