package config

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// ConnectRedis establishes a connection to Redis. Redis is optional: when no
// URL is configured the client stays nil and callers fall back to direct
// database counting.
func ConnectRedis(redisURL string) error {
	if redisURL == "" {
		log.Println("REDIS_URL not set, busy-count caching disabled")
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	redisClient = client
	log.Println("Redis connection established successfully")
	return nil
}

// GetRedis returns the Redis client, or nil when Redis is not configured
func GetRedis() *redis.Client {
	return redisClient
}

// SetRedis sets the Redis client (primarily for testing)
func SetRedis(client *redis.Client) {
	redisClient = client
}
