// AngelaMos | 2026
// session.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

// SessionStore keeps the single live refresh token of each user. Tokens are
// stored by hash only.
type SessionStore interface {
	Save(ctx context.Context, userID, tokenHash string, ttl time.Duration) error
	Consume(ctx context.Context, tokenHash string) (string, error)
	Revoke(ctx context.Context, userID string) error
}

type redisSessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) SessionStore {
	return &redisSessionStore{rdb: rdb}
}

func refreshKey(tokenHash string) string {
	return "refresh:" + tokenHash
}

func userSessionKey(userID string) string {
	return "user:" + userID + ":refresh"
}

// Save replaces any previous refresh token of the user.
func (s *redisSessionStore) Save(
	ctx context.Context,
	userID, tokenHash string,
	ttl time.Duration,
) error {
	previous, err := s.rdb.Get(ctx, userSessionKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return core.CacheError("load session", err)
	}

	pipe := s.rdb.TxPipeline()
	if previous != "" {
		pipe.Del(ctx, refreshKey(previous))
	}
	pipe.Set(ctx, refreshKey(tokenHash), userID, ttl)
	pipe.Set(ctx, userSessionKey(userID), tokenHash, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return core.CacheError("save session", err)
	}

	return nil
}

// Consume atomically removes the token and returns its owner, so a refresh
// token can be exchanged at most once.
func (s *redisSessionStore) Consume(
	ctx context.Context,
	tokenHash string,
) (string, error) {
	userID, err := s.rdb.GetDel(ctx, refreshKey(tokenHash)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("consume session: %w", core.ErrTokenInvalid)
	}
	if err != nil {
		return "", core.CacheError("consume session", err)
	}

	return userID, nil
}

func (s *redisSessionStore) Revoke(ctx context.Context, userID string) error {
	current, err := s.rdb.Get(ctx, userSessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return core.CacheError("load session", err)
	}

	if err := s.rdb.Del(ctx, refreshKey(current), userSessionKey(userID)).Err(); err != nil {
		return core.CacheError("revoke session", err)
	}

	return nil
}
