package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists session keys in Redis, namespaced per client instance
// so many portal sessions can share one server. A zero TTL stores keys
// without expiry, matching the no-client-side-expiry contract.
type RedisStore struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
	timeout   time.Duration
}

func NewRedisStore(rdb *redis.Client, namespace string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb:       rdb,
		namespace: namespace,
		ttl:       ttl,
		timeout:   2 * time.Second,
	}
}

func (s *RedisStore) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	v, err := s.rdb.Get(ctx, s.namespaced(key)).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", err
	}

	return v, nil
}

func (s *RedisStore) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.rdb.Set(ctx, s.namespaced(key), value, s.ttl).Err()
}

func (s *RedisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.rdb.Del(ctx, s.namespaced(key)).Err()
}

func (s *RedisStore) namespaced(key string) string {
	if s.namespace == "" {
		return key
	}

	return s.namespace + ":" + key
}
