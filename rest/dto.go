package rest

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest is the POST /v1/auth/login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=512"`
}

// RegisterRequest is the POST /v1/auth/register body.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=512"`
}

// UserResponse is the user shape returned by login, register, and me.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// MeResponse is the GET /v1/auth/me body.
type MeResponse struct {
	UserID    *uuid.UUID `json:"userId"`
	UserEmail *string    `json:"userEmail"`
	CreatedAt time.Time  `json:"createdAt"`
}

// MessageResponse is a generic success body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body for all non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
