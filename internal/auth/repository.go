package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summit-companion/backend/internal/models"
)

// ErrUserNotFound is returned when no account matches.
var ErrUserNotFound = errors.New("user not found")

const userCols = `id, email, password_hash, role, is_active, created_at, last_login_at`

// Repository handles moderator account persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a user repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.LastLoginAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns an account by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT ` + userCols + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetByID returns an account by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const query = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// Upsert creates an account or replaces its password hash and role. Used by
// the seeding CLI.
func (r *Repository) Upsert(ctx context.Context, email, passwordHash string, role models.Role) (*models.User, error) {
	const query = `INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role, is_active = TRUE
		RETURNING ` + userCols
	return scanUser(r.pool.QueryRow(ctx, query, email, passwordHash, role))
}

// TouchLastLogin records a successful login.
func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE users SET last_login_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
