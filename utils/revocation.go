package utils

import (
	"context"
	"errors"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/repositories"

	redis "github.com/redis/go-redis/v9"
)

const blacklistPrefix = "jwt:blacklist:"

// Revoker is a jti blacklist.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NewRevoker prefers Redis when a client is configured and falls back to
// the revoked_tokens table otherwise.
func NewRevoker(rc *redis.Client, repo repositories.RevokedTokenRepository) Revoker {
	if rc != nil {
		return &RedisRevoker{client: rc}
	}
	return &StoreRevoker{repo: repo}
}

type RedisRevoker struct {
	client *redis.Client
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return r.client.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	res, err := r.client.Get(ctx, blacklistPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res == "1", nil
}

type StoreRevoker struct {
	repo repositories.RevokedTokenRepository
}

func (s *StoreRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return s.repo.Revoke(ctx, jti, ttl)
}

func (s *StoreRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.repo.IsRevoked(ctx, jti)
}
