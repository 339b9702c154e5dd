// Package repository provides PostgreSQL persistence for users, sessions,
// cigars, tasting notes, user tags and humidors.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atinyakov/HumiTrack/internal/models"
)

// PostgresAuthRepository implements user and session storage using a PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// CreateUser inserts a new user.
// It returns ErrDuplicate if the email is already registered.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", classify(err))
	}
	return nil
}

// GetUserByEmail fetches a user by login email.
// It returns ErrNotFound if no such user exists.
func (r *PostgresAuthRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email)
}

// GetUserByID fetches a user by id.
// It returns ErrNotFound if no such user exists.
func (r *PostgresAuthRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (r *PostgresAuthRepository) getUser(ctx context.Context, query, arg string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", classify(err))
	}
	return &u, nil
}

// CreateSession opens a session for userID that is valid until expiresAt.
func (r *PostgresAuthRepository) CreateSession(ctx context.Context, id, userID string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`,
		id, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SessionActive reports whether the session exists, belongs to userID and has not expired.
func (r *PostgresAuthRepository) SessionActive(ctx context.Context, id, userID string) (bool, error) {
	var active bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1 AND user_id = $2 AND expires_at > now())`,
		id, userID,
	).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return active, nil
}

// DeleteSession closes a session. Deleting an unknown session is not an error.
func (r *PostgresAuthRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
