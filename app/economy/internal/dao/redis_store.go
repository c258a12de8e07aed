package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/pkg/database/redis"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
)

// kvClient RedisStore 依赖的客户端能力，*redis.Client 实现
type kvClient interface {
	redis.KV
	Del(ctx context.Context, keys ...string) (int64, error)
}

// RedisStore 以 <prefix><namespace>:<playerID> 为键保存 JSON
type RedisStore struct {
	client kvClient
	prefix string
	ttl    time.Duration
	logger logger.Logger
}

var _ StateStore = (*RedisStore)(nil)

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client, cfg *Config, l logger.Logger) *RedisStore {
	return newRedisStore(client, cfg, l)
}

func newRedisStore(client kvClient, cfg *Config, l logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: cfg.KeyPrefix,
		ttl:    cfg.TTL,
		logger: l.Named("dao.redis"),
	}
}

func (s *RedisStore) key(namespace string, playerID int64) string {
	return fmt.Sprintf("%s%s:%d", s.prefix, namespace, playerID)
}

func (s *RedisStore) Load(ctx context.Context, namespace string, playerID int64, out any) (bool, error) {
	key := s.key(namespace, playerID)
	if err := redis.GetInto(s.client, ctx, key, out); err != nil {
		if errors.Is(err, redis.ErrNil) {
			return false, nil
		}
		s.logger.Error("failed to load state from redis", "key", key, "error", err)
		return false, errors.Wrap(err, "failed to load state from redis")
	}
	return true, nil
}

func (s *RedisStore) Save(ctx context.Context, namespace string, playerID int64, value any) error {
	key := s.key(namespace, playerID)
	if err := redis.SetObject(s.client, ctx, key, value, s.ttl); err != nil {
		s.logger.Error("failed to save state to redis", "key", key, "error", err)
		return errors.Wrap(err, "failed to save state to redis")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, namespace string, playerID int64) error {
	if _, err := s.client.Del(ctx, s.key(namespace, playerID)); err != nil {
		return errors.Wrap(err, "failed to delete state from redis")
	}
	return nil
}
