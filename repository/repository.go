package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/veritas/config"
	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/repository/inmemory"
	"github.com/mohammad-safakhou/veritas/repository/redis_repository"
)

// SessionRepository is the durable mapping from session id to the latest
// context snapshot. Save overwrites any prior snapshot for the same session
// (last-write-wins); Get returns models.ErrSessionNotFound for absent or
// expired keys.
type SessionRepository interface {
	Save(ctx context.Context, snapshot models.Context, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (models.Context, error)
	Delete(ctx context.Context, sessionID string) error
}

func NewSessionRepository(ctx context.Context, cfg config.StorageConfig) (SessionRepository, error) {
	switch cfg.Backend {
	case "redis":
		c, err := redis_repository.Conn(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Timeout)
		if err != nil {
			return nil, err
		}
		return redis_repository.NewRedisSessionRepository(c), nil
	case "inmemory", "":
		return inmemory.NewSessionRepository(), nil
	}
	return nil, fmt.Errorf("invalid repository type: %s", cfg.Backend)
}
