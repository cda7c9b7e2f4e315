package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	goBasket "github.com/MrEthical07/goBasket"
)

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// UserRepository implements [goBasket.UserDirectory] over Postgres.
type UserRepository struct {
	db     DBIface
	logger *slog.Logger
}

// NewUserRepository creates a Postgres-backed user directory.
func NewUserRepository(db DBIface, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger.With("component", "user_repository"),
	}
}

// FindByEmail looks a user up by email, case-insensitively. Soft-deleted
// users are invisible.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*goBasket.UserRecord, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE lower(email) = lower($1) AND deleted_at IS NULL`

	var user goBasket.UserRecord
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goBasket.ErrUserNotFound
		}
		r.logger.Error("user lookup failed", "error", err)
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

// Create inserts a user with the given password hash. A duplicate email
// surfaces as [goBasket.ErrAccountExists].
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*goBasket.UserRecord, error) {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at`

	var user goBasket.UserRecord
	err := r.db.QueryRow(ctx, query, email, passwordHash).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, goBasket.ErrAccountExists
		}
		r.logger.Error("user creation failed", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("user created", "user_id", user.ID.String())
	return &user, nil
}
