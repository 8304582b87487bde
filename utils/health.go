package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	Telegram  bool      `json:"telegram"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
	botRunning    bool
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// Healthy reports whether Mongo and every Redis database answered the last check.
// The bot is optional and does not count.
func (h HealthStatus) Healthy() bool {
	if !h.Mongo {
		return false
	}
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return true
}

// SetBotRunning records whether the Telegram bot update loop is alive.
func SetBotRunning(running bool) {
	mu.Lock()
	botRunning = running
	currentHealth.Telegram = running
	mu.Unlock()
}

func checkHealth(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client) {
	var redisHealth []bool
	for _, client := range redisClients {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		redisHealth = append(redisHealth, client.Ping(pingCtx).Err() == nil)
		cancel()
	}

	mongoHealthy := false
	if mongoClient != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		mongoHealthy = mongoClient.Ping(pingCtx, nil) == nil
		cancel()
	}

	mu.Lock()
	currentHealth = HealthStatus{
		Mongo:     mongoHealthy,
		Redis:     redisHealth,
		Telegram:  botRunning,
		CheckedAt: time.Now(),
	}
	mu.Unlock()
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client) {
	go func() {
		checkHealth(ctx, redisClients, mongoClient)

		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				checkHealth(ctx, redisClients, mongoClient)
			}
		}
	}()
}
