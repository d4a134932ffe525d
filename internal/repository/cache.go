// internal/repository/cache.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/solar-catalog/internal/catalog"
	"github.com/javajoker/solar-catalog/internal/config"
)

// SnapshotStore caches a whole product snapshot.
type SnapshotStore interface {
	Get(ctx context.Context) ([]catalog.Product, bool, error)
	Set(ctx context.Context, products []catalog.Product) error
	Invalidate(ctx context.Context) error
}

func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisSnapshotStore keeps the snapshot as one feed document under a key.
type RedisSnapshotStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, key string, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, key: key, ttl: ttl}
}

func (s *RedisSnapshotStore) Get(ctx context.Context) ([]catalog.Product, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	feed, err := DecodeFeed(data)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return feed.Products, true, nil
}

func (s *RedisSnapshotStore) Set(ctx context.Context, products []catalog.Product) error {
	data, err := EncodeFeed(products, time.Now())
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return s.client.Set(ctx, s.key, data, s.ttl).Err()
}

func (s *RedisSnapshotStore) Invalidate(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// CachedSource reads through a snapshot store. Cache failures are logged
// and fall back to the underlying source.
type CachedSource struct {
	source ProductSource
	store  SnapshotStore
}

func NewCachedSource(source ProductSource, store SnapshotStore) *CachedSource {
	return &CachedSource{source: source, store: store}
}

func (c *CachedSource) LoadProducts(ctx context.Context) ([]catalog.Product, error) {
	products, hit, err := c.store.Get(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Snapshot cache read failed")
	}
	if hit {
		return products, nil
	}

	products, err = c.source.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, products); err != nil {
		logrus.WithError(err).Warn("Snapshot cache write failed")
	}
	return products, nil
}

// Invalidate drops the cached snapshot so the next load hits the source.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	return c.store.Invalidate(ctx)
}
