package listCacheRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"tablebook/models"

	"github.com/go-redis/redis/v8"
)

// ListCache stores the availability lists returned by the backend for a short time.
// A miss is reported as ok == false.
type ListCache interface {
	GetDays(ctx context.Context, restaurantID string, leadDays int) ([]string, bool, error)
	SetDays(ctx context.Context, restaurantID string, leadDays int, days []string) error
	GetSlots(ctx context.Context, restaurantID, date string, guests int) ([]models.TimeSlot, bool, error)
	SetSlots(ctx context.Context, restaurantID, date string, guests int, slots []models.TimeSlot) error
}

type RedisListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListCache(client *redis.Client, ttl time.Duration) ListCache {
	return &RedisListCache{client: client, ttl: ttl}
}

func daysKey(restaurantID string, leadDays int) string {
	return fmt.Sprintf("lists:days:%s:%d", restaurantID, leadDays)
}

func slotsKey(restaurantID, date string, guests int) string {
	return "lists:slots:" + restaurantID + ":" + date + ":" + strconv.Itoa(guests)
}

func (c *RedisListCache) get(ctx context.Context, key string, out any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Treat a corrupt entry as a miss; the next Set overwrites it.
		return false, nil
	}
	return true, nil
}

func (c *RedisListCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisListCache) GetDays(ctx context.Context, restaurantID string, leadDays int) ([]string, bool, error) {
	var days []string
	ok, err := c.get(ctx, daysKey(restaurantID, leadDays), &days)
	return days, ok, err
}

func (c *RedisListCache) SetDays(ctx context.Context, restaurantID string, leadDays int, days []string) error {
	return c.set(ctx, daysKey(restaurantID, leadDays), days)
}

func (c *RedisListCache) GetSlots(ctx context.Context, restaurantID, date string, guests int) ([]models.TimeSlot, bool, error) {
	var slots []models.TimeSlot
	ok, err := c.get(ctx, slotsKey(restaurantID, date, guests), &slots)
	return slots, ok, err
}

func (c *RedisListCache) SetSlots(ctx context.Context, restaurantID, date string, guests int, slots []models.TimeSlot) error {
	return c.set(ctx, slotsKey(restaurantID, date, guests), slots)
}
