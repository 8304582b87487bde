package gateRepo

import (
	"context"
	"encoding/json"
	"time"

	"tablebook/models"

	"github.com/go-redis/redis/v8"
)

const gateStatePrefix = "gate:"

// RedisGateStore keeps the redirect gate state of each launch session.
type RedisGateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGateStore(client *redis.Client, ttl time.Duration) *RedisGateStore {
	return &RedisGateStore{client: client, ttl: ttl}
}

// Load returns a zero state for a session seen for the first time.
func (s *RedisGateStore) Load(ctx context.Context, sessionID string) (models.GateState, error) {
	var state models.GateState
	data, err := s.client.Get(ctx, gateStatePrefix+sessionID).Bytes()
	if err == redis.Nil {
		return state, nil
	}
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return models.GateState{}, err
	}
	return state, nil
}

func (s *RedisGateStore) Save(ctx context.Context, sessionID string, state models.GateState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, gateStatePrefix+sessionID, b, s.ttl).Err()
}
