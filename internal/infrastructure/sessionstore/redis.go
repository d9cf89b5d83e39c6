package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps sessions as plain keys with a TTL; Redis expires them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return fmt.Sprintf("cardbank:session:%s", token)
}

func (s *RedisStore) Save(ctx context.Context, token, number string) error {
	return s.client.Set(ctx, sessionKey(token), number, s.ttl).Err()
}

func (s *RedisStore) Lookup(ctx context.Context, token string) (string, error) {
	number, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return number, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}
