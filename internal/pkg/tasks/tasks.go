// Package tasks tracks asynchronously triggered jobs and guards batch runs
// with a distributed lock.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrLockHeld     = errors.New("lock is held by another worker")
)

type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Status is the last known state of a task.
type Status struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	State     State           `json:"state"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Tracker stores task statuses.
type Tracker interface {
	Save(ctx context.Context, status Status) error
	Get(ctx context.Context, id string) (Status, error)
}

// Release gives a lock back.
type Release func(ctx context.Context) error

// Locker hands out mutually exclusive, expiring locks.
type Locker interface {
	// Acquire returns ErrLockHeld when another holder owns key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}
