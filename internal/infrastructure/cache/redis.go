package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"cardbank/internal/config"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects and pings Redis. The caller closes the client.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", client.Options().Addr, err)
	}

	log.Println("[Redis] connected")
	return client, nil
}
