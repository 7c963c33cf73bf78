package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const joinLockTTL = 30 * time.Second

// JoinLock serialises join attempts backed by Redis.
// Key format: join:<challenge_id>:<user_id>
type JoinLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewJoinLock creates a JoinLock wrapping the given Redis client.
func NewJoinLock(client *redis.Client) *JoinLock {
	return &JoinLock{client: client, ttl: joinLockTTL}
}

// Acquire reports whether the caller now holds the lock. The lock expires
// after ttl even if Release is never called.
func (l *JoinLock) Acquire(ctx context.Context, challengeID, userID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(challengeID, userID), "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("join lock acquire: %w", err)
	}
	return ok, nil
}

func (l *JoinLock) Release(ctx context.Context, challengeID, userID string) error {
	if err := l.client.Del(ctx, l.key(challengeID, userID)).Err(); err != nil {
		return fmt.Errorf("join lock release: %w", err)
	}
	return nil
}

func (l *JoinLock) key(challengeID, userID string) string {
	return fmt.Sprintf("join:%s:%s", challengeID, userID)
}
