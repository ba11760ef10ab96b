package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key written by the store.
	Prefix string
	// ConnectAttempts is how many times Connect pings before giving up.
	ConnectAttempts int
	RetryInterval   time.Duration
}

// DefaultOptions matches a local Redis with no auth.
func DefaultOptions() Options {
	return Options{
		Addr:            "localhost:6379",
		Prefix:          "kupovi",
		ConnectAttempts: 5,
		RetryInterval:   5 * time.Second,
	}
}

// Connect dials Redis and waits until it answers a PING.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	attempts := opts.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			log.WithField("addr", opts.Addr).Info("Connected to Redis")
			return client, nil
		}
		log.WithError(err).Warnf("Attempt %d: failed to connect to Redis at %s", i+1, opts.Addr)

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(opts.RetryInterval):
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("failed to connect to redis at %s after %d attempts: %w", opts.Addr, attempts, err)
}
