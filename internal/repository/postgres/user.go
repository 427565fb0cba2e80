package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/zyneth-auth/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, email, role, full_name, avatar_url, google_id, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// Create inserts a user with the default role.
// A row already holding the email yields model.ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, params model.CreateUserParams) (model.User, error) {
	query := `INSERT INTO users (id, email, full_name, avatar_url, google_id)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (email) DO NOTHING
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query,
		uuid.New(), params.Email, params.FullName, params.AvatarURL, params.GoogleID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Role, &user.FullName, &user.AvatarURL, &user.GoogleID,
		&user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}
