// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"tablebook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (gate state, list cache).
	CacheClient *redis.Client
	// AuthCacheClient is the dedicated client for authorization caching.
	AuthCacheClient *redis.Client
	// BookingCacheClient holds booking form sessions.
	BookingCacheClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitRedis connects every Redis client used by the service.
func InitRedis() {
	GetCacheClient()
	GetAuthCacheClient()
	GetBookingCacheClient()
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
	}
	return CacheClient
}

// GetAuthCacheClient returns the Redis client for authorization caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB, "Auth Cache")
	}
	return AuthCacheClient
}

// GetBookingCacheClient returns the Redis client for booking form sessions.
func GetBookingCacheClient() *redis.Client {
	if BookingCacheClient == nil {
		BookingCacheClient = newRedisClient(config.AppConfig.RedisBookingDB, "Booking")
	}
	return BookingCacheClient
}

// RedisClients lists the initialised clients for the health monitor.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{CacheClient, AuthCacheClient, BookingCacheClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
