package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis stores values under a key prefix in a Redis database, so several
// console hosts can share one operator session.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
