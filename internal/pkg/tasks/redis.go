package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	taskKeyPrefix = "payroll:task:"
	lockKeyPrefix = "payroll:lock:"
)

// releaseScript deletes the lock only if it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

type RedisTracker struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisTracker(client redis.Cmdable, ttl time.Duration) *RedisTracker {
	return &RedisTracker{client: client, ttl: ttl}
}

func (t *RedisTracker) Save(ctx context.Context, status Status) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode task status: %w", err)
	}
	if err := t.client.Set(ctx, taskKeyPrefix+status.ID, payload, t.ttl).Err(); err != nil {
		return fmt.Errorf("save task status: %w", err)
	}
	return nil
}

func (t *RedisTracker) Get(ctx context.Context, id string) (Status, error) {
	raw, err := t.client.Get(ctx, taskKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Status{}, ErrTaskNotFound
		}
		return Status{}, fmt.Errorf("load task status: %w", err)
	}

	var status Status
	if err := json.Unmarshal(raw, &status); err != nil {
		return Status{}, fmt.Errorf("decode task status: %w", err)
	}
	return status, nil
}

type RedisLocker struct {
	client redis.Cmdable
	token  func() string
}

func NewRedisLocker(client redis.Cmdable) *RedisLocker {
	return &RedisLocker{client: client, token: uuid.NewString}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	token := l.token()
	fullKey := lockKeyPrefix + key

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	return func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseScript, []string{fullKey}, token).Err(); err != nil {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		return nil
	}, nil
}
