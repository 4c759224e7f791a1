package commands

import (
	"context"
	"time"
)

// LockoutState is the failed-login counter for one account key.
type LockoutState struct {
	FailedCount int
	LockedUntil *time.Time
}

func (s LockoutState) IsLocked(now time.Time) bool {
	return s.LockedUntil != nil && now.Before(*s.LockedUntil)
}

type LockoutStore interface {
	Get(ctx context.Context, key string) (LockoutState, error)
	RecordFailure(ctx context.Context, key string, now time.Time, threshold int, window time.Duration) (LockoutState, error)
	Clear(ctx context.Context, key string) error
}

const (
	EventBookReserved = "book.reserved"
	EventBookReturned = "book.returned"
)

// EventPublisher delivers circulation events. Delivery is best effort; callers
// log failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
