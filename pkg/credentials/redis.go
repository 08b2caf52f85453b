package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ikas:credential:"

// RedisStore implements Store on Redis, one JSON value per authorized app.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStore connects to the Redis server described by redisURL
// (redis://[:password@]host:port/db).
func NewRedisStore(ctx context.Context, logger *slog.Logger, redisURL string) (*RedisStore, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	store := NewRedisStoreWithClient(redis.NewClient(options), logger)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = store.client.Ping(pingCtx).Err()
	if err != nil {
		_ = store.client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	store.logger.InfoContext(ctx, "Connected to Redis", "addr", options.Addr, "db", options.DB)

	return store, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.With("component", "credential_redis_store"),
	}
}

// Get retrieves a credential by authorized app ID.
func (r *RedisStore) Get(ctx context.Context, authorizedAppID string) (*Credential, error) {
	raw, err := r.client.Get(ctx, redisKey(authorizedAppID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	var credential Credential
	if err := json.Unmarshal(raw, &credential); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	return &credential, nil
}

// Save inserts or replaces a credential, keeping the original creation time.
func (r *RedisStore) Save(ctx context.Context, credential *Credential) error {
	if err := credential.Validate(); err != nil {
		return err
	}

	if credential.CreatedAt.IsZero() {
		existing, err := r.Get(ctx, credential.AuthorizedAppID)
		if err == nil {
			credential.CreatedAt = existing.CreatedAt
		} else if !IsNotFound(err) {
			return err
		}
	}

	credential.touch(time.Now().UTC())

	raw, err := json.Marshal(credential)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	err = r.client.Set(ctx, redisKey(credential.AuthorizedAppID), raw, 0).Err()
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save credential", "authorized_app_id", credential.AuthorizedAppID, "error", err)

		return fmt.Errorf("failed to save credential: %w", err)
	}

	return nil
}

// Delete removes a credential.
func (r *RedisStore) Delete(ctx context.Context, authorizedAppID string) error {
	deleted, err := r.client.Del(ctx, redisKey(authorizedAppID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	if deleted == 0 {
		return ErrNotFound
	}

	return nil
}

// HealthCheck pings the Redis server.
func (r *RedisStore) HealthCheck(ctx context.Context) error {
	err := r.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func redisKey(authorizedAppID string) string {
	return redisKeyPrefix + authorizedAppID
}
