package goBasket

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRecord is a user as stored in the directory backend.
//
// PasswordHash is nil for accounts that cannot log in with a password, such
// as accounts created through an external identity provider.
type UserRecord struct {
	ID           uuid.UUID
	Email        string
	PasswordHash *string
	CreatedAt    time.Time
}

// UserDirectory is the user storage backend the engine authenticates
// against. The bundled postgres package provides the production
// implementation.
//
// FindByEmail matches case-insensitively and returns [ErrUserNotFound] for
// unknown addresses. Create returns [ErrAccountExists] when the email is
// already taken.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	Create(ctx context.Context, email, passwordHash string) (*UserRecord, error)
}
