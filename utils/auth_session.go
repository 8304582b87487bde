package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const AuthSessionPrefix = "authSession:"

// AuthSession is a signed-in launch of the mini app. The middleware only accepts tokens
// whose hash matches the stored session.
type AuthSession struct {
	UserID        string    `json:"userId"`
	TelegramID    int64     `json:"telegramId"`
	TokenHash     string    `json:"tokenHash"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// RedisAuthSessions stores auth sessions in the auth cache.
type RedisAuthSessions struct {
	Client *redis.Client
}

// Save stores the session until the token expires.
func (s RedisAuthSessions) Save(ctx context.Context, sessionID string, session AuthSession, ttl time.Duration) error {
	return SaveAuthSession(ctx, s.Client, sessionID, session, ttl)
}

// Get returns nil, nil for an unknown or expired session.
func (s RedisAuthSessions) Get(ctx context.Context, sessionID string) (*AuthSession, error) {
	session, err := GetAuthSession(ctx, s.Client, sessionID)
	if err == redis.Nil {
		return nil, nil
	}
	return session, err
}

// Delete signs the session out.
func (s RedisAuthSessions) Delete(ctx context.Context, sessionID string) error {
	return DeleteAuthSession(ctx, s.Client, sessionID)
}

// SaveAuthSession saves the authentication session in Redis with a TTL.
func SaveAuthSession(ctx context.Context, client *redis.Client, sessionID string, session AuthSession, ttl time.Duration) error {
	session.LastUpdatedAt = time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.LastUpdatedAt
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal auth session: %w", err)
	}
	if err := client.Set(ctx, AuthSessionPrefix+sessionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}
	return nil
}

// GetAuthSession retrieves the authentication session from Redis.
func GetAuthSession(ctx context.Context, client *redis.Client, sessionID string) (*AuthSession, error) {
	data, err := client.Get(ctx, AuthSessionPrefix+sessionID).Result()
	if err != nil {
		return nil, err
	}
	var session AuthSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth session: %w", err)
	}
	return &session, nil
}

// DeleteAuthSession removes an authentication session from Redis.
func DeleteAuthSession(ctx context.Context, client *redis.Client, sessionID string) error {
	return client.Del(ctx, AuthSessionPrefix+sessionID).Err()
}
