package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const userColumns = `id, name, role, pin, email, is_active, login_attempts, locked_until, last_login_at, created_at, updated_at`

// UserRepository gives access to the pos_users table of the hosted staff
// directory.
type UserRepository struct {
	db  *pgxpool.Pool
	log zerolog.Logger
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *pgxpool.Pool, log zerolog.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Role,
		&user.PIN,
		&user.Email,
		&user.IsActive,
		&user.LoginAttempts,
		&user.LockedUntil,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// FindByPin retrieves the user holding the given PIN regardless of the
// active flag. Lock bookkeeping is keyed by PIN value, so disabled accounts
// are still visible here.
func (r *UserRepository) FindByPin(ctx context.Context, pin string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM pos_users WHERE pin = $1`
	return scanUser(r.db.QueryRow(ctx, query, pin))
}

// FindActiveByPin retrieves the active user holding the given PIN.
func (r *UserRepository) FindActiveByPin(ctx context.Context, pin string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM pos_users WHERE pin = $1 AND is_active = true`
	return scanUser(r.db.QueryRow(ctx, query, pin))
}

// FindOtherByPin retrieves a user other than excludeID already holding the
// given PIN. Used for the uniqueness check before a PIN change.
func (r *UserRepository) FindOtherByPin(ctx context.Context, pin, excludeID string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM pos_users WHERE pin = $1 AND id <> $2`
	return scanUser(r.db.QueryRow(ctx, query, pin, excludeID))
}

// FindByID retrieves a user by id, optionally filtered to active accounts.
func (r *UserRepository) FindByID(ctx context.Context, id string, activeOnly bool) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM pos_users WHERE id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// UpdateAttempts persists the failed-attempt counter and lock expiry for the
// account holding the given PIN. A nil lockedUntil clears the lock.
func (r *UserRepository) UpdateAttempts(ctx context.Context, pin string, attempts int, lockedUntil *time.Time) error {
	query := `
		UPDATE pos_users
		SET login_attempts = $2, locked_until = $3, updated_at = NOW()
		WHERE pin = $1
	`

	_, err := r.db.Exec(ctx, query, pin, attempts, lockedUntil)
	if err != nil {
		return fmt.Errorf("failed to update login attempts: %w", err)
	}
	return nil
}

// UpdateOnSuccess records a successful login: zeroes the attempt counter,
// clears any lock and stamps last_login_at.
func (r *UserRepository) UpdateOnSuccess(ctx context.Context, id string, lastLogin time.Time) error {
	query := `
		UPDATE pos_users
		SET login_attempts = 0, locked_until = NULL, last_login_at = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, lastLogin)
	if err != nil {
		return fmt.Errorf("failed to record successful login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePin stores a new PIN for the given user.
func (r *UserRepository) UpdatePin(ctx context.Context, id, newPin string) error {
	query := `UPDATE pos_users SET pin = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, newPin)
	if err != nil {
		return fmt.Errorf("failed to update pin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearLock zeroes the attempt counter and clears the lock for a user by id.
func (r *UserRepository) ClearLock(ctx context.Context, id string) error {
	query := `
		UPDATE pos_users
		SET login_attempts = 0, locked_until = NULL, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear lock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsers retrieves all staff accounts, newest first.
func (r *UserRepository) ListUsers(ctx context.Context) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM pos_users ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SetActive enables or disables a staff account.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE pos_users SET is_active = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to set active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
