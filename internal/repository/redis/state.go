package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/zyneth-auth/internal/model"
)

var _ model.StateStore = (*StateStore)(nil)

const statePrefix = "oauth_state:"

// StateStore keeps issued OAuth states until they are consumed or expire.
type StateStore struct {
	client goredis.Cmdable
	prefix string
}

func NewStateStore(client goredis.Cmdable) *StateStore {
	return &StateStore{
		client: client,
		prefix: statePrefix,
	}
}

func (s *StateStore) key(state string) string {
	return s.prefix + state
}

func (s *StateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	if state == "" {
		return errors.New("state: empty value")
	}
	if ttl <= 0 {
		return errors.New("state: ttl must be positive")
	}

	if err := s.client.Set(ctx, s.key(state), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Consume deletes the state and reports whether it was present.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	err := s.client.GetDel(ctx, s.key(state)).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume state: %w", err)
	}
	return true, nil
}
