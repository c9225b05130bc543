package cache

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/carlosgl93/gumucio-propiedades/internal/config"
)

// ConnectRedis establishes a connection to the Redis server and verifies it.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	log.Printf("Connected to Redis at %s", cfg.RedisAddr)
	return client, nil
}

// DisconnectRedis closes the Redis connection.
func DisconnectRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Printf("WARN: error closing Redis connection: %v", err)
	}
}
