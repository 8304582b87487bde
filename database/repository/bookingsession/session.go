package sessionRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tablebook/models"

	"github.com/go-redis/redis/v8"
)

const bookingSessionPrefix = "booking:session:"

// RedisSessionStore keeps booking form snapshots in Redis with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return bookingSessionPrefix + id
}

// Save overwrites the snapshot and restarts its TTL.
func (s *RedisSessionStore) Save(ctx context.Context, snap models.BookingSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(snap.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save booking session: %w", err)
	}
	return nil
}

// Load returns nil, nil when the session expired or never existed.
func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (*models.BookingSnapshot, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap models.BookingSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking session: %w", err)
	}
	return &snap, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}
