// Package rediscache is the publish/cache collaborator of the simulator:
// readings are broadcast on a pub/sub channel and the latest one is kept
// under a key with a TTL so late subscribers can read the last known state.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrCacheMiss means the key is absent or has expired.
var ErrCacheMiss = errors.New("cache miss")

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Transport wraps a go-redis client with the two operations the simulator needs
// plus read-back and health checks.
type Transport struct {
	client *redis.Client
}

func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func New(client *redis.Client) *Transport {
	return &Transport{client: client}
}

// Connect pings Redis with exponential backoff before handing out a Transport.
func Connect(ctx context.Context, cfg Config, maxRetries int, logger *zap.Logger) (*Transport, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}
	client := NewClient(cfg)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second

	err := backoff.Retry(func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed", zap.String("addr", cfg.Addr), zap.Error(err))
			return err
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries-1)), ctx))
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not reach redis at %s after retries: %w", cfg.Addr, err)
	}

	logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return New(client), nil
}

// ConnectLazy is Connect for long-running producers: if Redis cannot be reached
// it still returns a Transport over a fresh client. go-redis redials on demand,
// so callers see per-command errors until the server comes back.
func ConnectLazy(ctx context.Context, cfg Config, maxRetries int, logger *zap.Logger) *Transport {
	t, err := Connect(ctx, cfg, maxRetries, logger)
	if err != nil {
		logger.Warn("redis unavailable at startup, continuing without it", zap.Error(err))
		return New(NewClient(cfg))
	}
	return t
}

// Publish broadcasts payload on channel. Delivery is fire-and-forget.
func (t *Transport) Publish(ctx context.Context, channel, payload string) error {
	if err := t.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

// SetWithExpiry stores payload under key; it expires after ttl.
func (t *Transport) SetWithExpiry(ctx context.Context, key, payload string, ttl time.Duration) error {
	if err := t.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get returns the cached payload or ErrCacheMiss.
func (t *Transport) Get(ctx context.Context, key string) (string, error) {
	val, err := t.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

func (t *Transport) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}

func (t *Transport) Close() error {
	return t.client.Close()
}
