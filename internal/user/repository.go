package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/fkhayef/movienight/internal/database"
)

const uniqueViolation pq.ErrorCode = "23505"

// Repository handles user data persistence
type Repository struct {
	db database.DBTX
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, username string, name *string, passwordHash string) (*User, error) {
	query := `
		INSERT INTO users (username, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, name, avatar_url, password_hash, created_at
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, username, name, passwordHash).Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.AvatarURL,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, username, name, avatar_url, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

// GetByUsername retrieves a user by their username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, name, avatar_url, password_hash, created_at
		FROM users
		WHERE username = $1
	`
	return r.scanOne(ctx, query, username)
}

// CountExisting returns how many of the given IDs belong to existing users
func (r *Repository) CountExisting(ctx context.Context, ids []int64) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE id = ANY($1)`

	var n int
	if err := r.db.QueryRowContext(ctx, query, pq.Array(ids)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *Repository) scanOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.AvatarURL,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
