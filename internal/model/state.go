package model

import (
	"context"
	"time"
)

// StateTTL bounds how long an issued OAuth state stays redeemable.
const StateTTL = 10 * time.Minute

// StateStore keeps issued OAuth states until they are redeemed.
type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	// Consume deletes the state and reports whether it existed.
	Consume(ctx context.Context, state string) (bool, error)
}
