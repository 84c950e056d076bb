package locking

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrLockHeld is returned when another process holds the user's lock and
// the acquire wait expires.
var ErrLockHeld = errors.New("scheduling lock held by another request")

// Release frees an acquired lock. Safe to call once.
type Release func(ctx context.Context)

// UserLock serializes scheduling operations per user. Two concurrent
// requests for the same owner must never both see the same free slot.
type UserLock interface {
	Acquire(ctx context.Context, ownerID uuid.UUID) (Release, error)
}
