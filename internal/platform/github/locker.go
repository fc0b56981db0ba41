package github

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// IssueLocker serializes status transitions per issue across concurrent
// processor instances. Locking is best-effort: when a lock cannot be
// acquired the caller proceeds anyway and relies on the conditional
// status update to reject lost races.
type IssueLocker interface {
	// TryLock attempts to acquire the lock for an issue. Returns a release
	// function when acquired, or false when the lock is held elsewhere.
	TryLock(ctx context.Context, issueID string) (release func(), acquired bool)
}

// NoopLocker performs no locking. Used for single-instance deployments
// where the conditional status update alone is sufficient.
type NoopLocker struct{}

func (NoopLocker) TryLock(ctx context.Context, issueID string) (func(), bool) {
	return func() {}, true
}

// RedisIssueLocker implements IssueLocker with the SET NX EX pattern.
// The TTL bounds how long a crashed processor can hold a lock.
type RedisIssueLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIssueLocker creates a Redis-backed issue locker.
func NewRedisIssueLocker(client *redis.Client, ttl time.Duration) *RedisIssueLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisIssueLocker{client: client, ttl: ttl}
}

func (l *RedisIssueLocker) TryLock(ctx context.Context, issueID string) (func(), bool) {
	key := "trackdeck:issue-lock:" + issueID

	acquired, err := l.client.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		slog.Error("Failed to acquire issue lock", "issueId", issueID, "error", err)
		// Treat Redis outages as no-lock: the CAS update still guards.
		return func() {}, true
	}
	if !acquired {
		return nil, false
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.client.Del(ctx, key).Err(); err != nil {
			slog.Error("Failed to release issue lock", "issueId", issueID, "error", err)
		}
	}
	return release, true
}
