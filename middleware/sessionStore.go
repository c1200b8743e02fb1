package middleware

import (
	"context"
	"errors"
	"time"

	"catalog-search-backend/token"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks tokens revoked before their expiry
type SessionStore interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, payload *token.Payload) error
}

type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func revokedKey(tokenID string) string {
	return "revoked_token:" + tokenID
}

func (s *RedisSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := s.client.Get(ctx, revokedKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Revoke marks the token as revoked until it would have expired anyway
func (s *RedisSessionStore) Revoke(ctx context.Context, payload *token.Payload) error {
	ttl := time.Until(payload.ExpiredAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKey(payload.ID.String()), payload.Subject, ttl).Err()
}
