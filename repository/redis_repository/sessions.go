package redis_repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/veritas/models"
)

const sessionKeyPrefix = "session:"

// redisSessionRepository stores context snapshots as JSON values with a TTL
type redisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) *redisSessionRepository {
	return &redisSessionRepository{client: client}
}

func (r *redisSessionRepository) Save(ctx context.Context, snapshot models.Context, ttl time.Duration) error {
	key := sessionKeyPrefix + snapshot.SessionID

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	// SET replaces any prior snapshot for the key and resets the TTL.
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return err
	}
	return nil
}

func (r *redisSessionRepository) Get(ctx context.Context, sessionID string) (models.Context, error) {
	key := sessionKeyPrefix + sessionID

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Context{}, models.ErrSessionNotFound
		}
		return models.Context{}, err
	}

	var snapshot models.Context
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return models.Context{}, err
	}
	return snapshot, nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	key := sessionKeyPrefix + sessionID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return models.ErrSessionNotFound
		}
		return err
	}
	return nil
}
