package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *uuid.UUID:
			*d = v.(uuid.UUID)
		case *string:
			*d = v.(string)
		case **string:
			*d = v.(*string)
		case *time.Time:
			*d = v.(time.Time)
		}
	}
	return nil
}

func TestNewUserRepository(t *testing.T) {
	db := &Connection{}
	repo := NewUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestScanUser(t *testing.T) {
	id := uuid.New()
	avatar := "https://img/a.png"
	googleID := "g1"
	now := time.Now()

	user, err := scanUser(fakeRow{values: []any{id, "a@b.com", "user", "A B", &avatar, &googleID, now, now}})
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "A B", user.FullName)
	assert.Equal(t, &avatar, user.AvatarURL)
	assert.Equal(t, &googleID, user.GoogleID)

	_, err = scanUser(fakeRow{err: errors.New("boom")})
	require.Error(t, err)
}

func TestConnection_PingWithoutPool(t *testing.T) {
	conn := &Connection{}
	require.Error(t, conn.Ping(t.Context()))
	require.NoError(t, conn.Close())
}
