package providers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"zapperd/internal/structures"
)

const redisKeyPrefix = "relay:"

// RedisRelayStore keeps relay blobs in Redis with a per-key TTL, for
// self-hosted deployments where Cloudflare KV is not available.
type RedisRelayStore struct {
	client *redis.Client
	logger Logger
}

func NewRedisRelayStore(conf *structures.Config, logger Logger) *RedisRelayStore {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Relay.Redis.Addr,
		Password: conf.Relay.Redis.Password,
		DB:       conf.Relay.Redis.DB,
	})
	return &RedisRelayStore{client: client, logger: logger}
}

func (s *RedisRelayStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	err := s.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err()
	if err != nil {
		s.logger.Errorf(TypeApp, "Redis relay put failed: %s", err)
		return ErrRelayUnreachable
	}
	return nil
}

func (s *RedisRelayStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRelayNotFound
	}
	if err != nil {
		s.logger.Errorf(TypeApp, "Redis relay get failed: %s", err)
		return "", ErrRelayUnreachable
	}
	return value, nil
}
