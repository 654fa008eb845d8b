package otp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// expiryGrace keeps entries readable for a while past their logical
// expiry so an expired code can be reported as expired rather than
// absent. Redis reclaims the key after the grace window.
const expiryGrace = 1 * time.Hour

// RedisStore holds pending verifications in Redis, one hash per email.
// The key TTL handles reclamation; the logical expiry is stored as a
// field and enforced by the caller.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func pendingKey(email string) string {
	return fmt.Sprintf("otp:pending:%s", normalizeEmail(email))
}

// Put writes the entry, silently overwriting any previous code for the
// same email. The overwrite happens in one pipeline so a concurrent
// reader never observes a half-written entry.
func (s *RedisStore) Put(ctx context.Context, pv PendingVerification) error {
	key := pendingKey(pv.Email)

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"code":       pv.Code,
		"expires_at": pv.ExpiresAt.Unix(),
	})
	pipe.Expire(ctx, key, time.Until(pv.ExpiresAt)+expiryGrace)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store pending verification: %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, email string) (*PendingVerification, error) {
	data, err := s.client.HGetAll(ctx, pendingKey(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get pending verification: %w", err)
	}

	if len(data) == 0 {
		return nil, ErrNotFound
	}

	expiresAtUnix, err := strconv.ParseInt(data["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expiry: %w", err)
	}

	return &PendingVerification{
		Email:     normalizeEmail(email),
		Code:      data["code"],
		ExpiresAt: time.Unix(expiresAtUnix, 0),
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, pendingKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending verification: %w", err)
	}

	return nil
}

// Sweep is a no-op: Redis reclaims expired keys via TTL.
func (s *RedisStore) Sweep(ctx context.Context) error {
	return nil
}
