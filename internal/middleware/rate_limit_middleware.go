package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimitConfig holds the settings for one rate-limited route group.
type RateLimitConfig struct {
	// MaxRequests allowed per Window.
	MaxRequests int
	// Window over which requests are counted.
	Window time.Duration
	// KeyPrefix namespaces the Redis counters.
	KeyPrefix string
}

// AuthRateLimitConfig limits the login bridge. Duplicate taps and client
// retries are expected, so the ceiling is generous.
func AuthRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 20,
		Window:      1 * time.Minute,
		KeyPrefix:   "rl:auth",
	}
}

// DeletionRateLimitConfig limits account deletion attempts. Deletion is not
// something a legitimate client hammers.
func DeletionRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 5,
		Window:      1 * time.Minute,
		KeyPrefix:   "rl:account",
	}
}

// RateLimiter builds Redis-backed rate limiting middleware keyed on
// client IP + route.
type RateLimiter struct {
	redisClient redis.UniversalClient
}

func NewRateLimiter(redisClient redis.UniversalClient) *RateLimiter {
	return &RateLimiter{redisClient: redisClient}
}

// Limit returns a gin middleware enforcing cfg. Redis failures are fail-open:
// a broken limiter must not take the auth endpoints down with it.
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		key := fmt.Sprintf("%s:%s:%s", cfg.KeyPrefix, clientIP, path)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("[RateLimiter] Redis error for key %s: %v. Allowing request (fail-open).", key, err)
			c.Next()
			return
		}

		if count == 1 {
			if err := rl.redisClient.Expire(ctx, key, cfg.Window).Err(); err != nil {
				log.Printf("[RateLimiter] failed to set TTL for key %s: %v", key, err)
			}
		}

		if count > int64(cfg.MaxRequests) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests, please try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
