package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"library-backend/internal/pkg/errs"
	"library-backend/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
)

const (
	lockoutKeyPrefix = "auth:lockout:"
	idleLockoutTTL   = 24 * time.Hour
)

// Connect accepts either a redis:// URL or a bare host:port and verifies the
// server answers before returning.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, errs.Wrap(err, "parse redis url")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errs.Wrap(err, "ping redis")
	}
	return client, nil
}

type RedisLockoutStore struct {
	client *redis.Client
}

func NewRedisLockoutStore(client *redis.Client) *RedisLockoutStore {
	return &RedisLockoutStore{client: client}
}

func (s *RedisLockoutStore) Get(ctx context.Context, key string) (commands.LockoutState, error) {
	data, err := s.client.HGetAll(ctx, lockoutKey(key)).Result()
	if err != nil {
		return commands.LockoutState{}, errs.Wrap(err, "read lockout state")
	}
	return parseLockoutState(data), nil
}

func (s *RedisLockoutStore) RecordFailure(ctx context.Context, key string, now time.Time, threshold int, window time.Duration) (commands.LockoutState, error) {
	redisKey := lockoutKey(key)

	count, err := s.client.HIncrBy(ctx, redisKey, "failed_count", 1).Result()
	if err != nil {
		return commands.LockoutState{}, errs.Wrap(err, "increment failed logins")
	}

	state := commands.LockoutState{FailedCount: int(count)}
	if int(count) < threshold {
		if err := s.client.Expire(ctx, redisKey, idleLockoutTTL).Err(); err != nil {
			return commands.LockoutState{}, errs.Wrap(err, "set lockout ttl")
		}
		return state, nil
	}

	lockedUntil := now.Add(window).UTC()
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, redisKey, "locked_until", lockedUntil.Unix())
		p.Expire(ctx, redisKey, window)
		return nil
	})
	if err != nil {
		return commands.LockoutState{}, errs.Wrap(err, "lock account")
	}
	state.LockedUntil = &lockedUntil
	return state, nil
}

func (s *RedisLockoutStore) Clear(ctx context.Context, key string) error {
	return errs.Wrap(s.client.Del(ctx, lockoutKey(key)).Err(), "clear lockout state")
}

func lockoutKey(key string) string {
	return lockoutKeyPrefix + strings.ToLower(strings.TrimSpace(key))
}

func parseLockoutState(data map[string]string) commands.LockoutState {
	state := commands.LockoutState{}
	if raw, ok := data["failed_count"]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			state.FailedCount = n
		}
	}
	if raw, ok := data["locked_until"]; ok && raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil && unix > 0 {
			t := time.Unix(unix, 0).UTC()
			state.LockedUntil = &t
		}
	}
	return state
}

// NopLockoutStore is used when REDIS_URL is empty; it never locks anyone out.
type NopLockoutStore struct{}

func (NopLockoutStore) Get(context.Context, string) (commands.LockoutState, error) {
	return commands.LockoutState{}, nil
}

func (NopLockoutStore) RecordFailure(context.Context, string, time.Time, int, time.Duration) (commands.LockoutState, error) {
	return commands.LockoutState{}, nil
}

func (NopLockoutStore) Clear(context.Context, string) error {
	return nil
}
