package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mangapress/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis builds a Redis client and verifies the connection.
func ConnectRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("connected to redis", "addr", cfg.RedisAddr)
	return rdb, nil
}
