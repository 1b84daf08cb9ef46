package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/prepforge/mocktest-service/internal/repositories"
)

const keyPrefix = "mocktest:state:"

// RedisStateStore persists state blobs in Redis. It is a drop-in alternative
// to the embedded store for deployments that already run Redis.
type RedisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(client *redis.Client) repositories.StateStore {
	return &RedisStateStore{client: client}
}

// Save overwrites the blob stored under key. Blobs never expire; Clear and
// Delete are the only removal paths.
func (r *RedisStateStore) Save(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, keyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save state blob %q: %w", key, err)
	}
	return nil
}

// Load returns the blob stored under key, or ErrNotFound.
func (r *RedisStateStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load state blob %q: %w", key, err)
	}
	return data, nil
}

// Delete removes the blob stored under key. Missing keys are not an error.
func (r *RedisStateStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete state blob %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisStateStore) Close() error {
	return r.client.Close()
}
