// Package tokenstore implements auth.ResetTokenStore on Redis: one key per
// outstanding reset token, expired by TTL rather than by a sweep.
package tokenstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/haoyun/jobflow/pkg/auth"
)

const keyPrefix = "pwreset:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+token, userID.String(), ttl).Err()
}

// Consume fetches and deletes the token atomically so it cannot be replayed.
func (s *RedisStore) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.client.GetDel(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, auth.ErrInvalidResetToken
		}
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, auth.ErrInvalidResetToken
	}
	return userID, nil
}
