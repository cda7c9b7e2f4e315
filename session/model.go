package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is the payload stored under a session token. The JSON field names
// are part of the cache contract; entries written by older deploys must stay
// readable.
//
// UserID and UserEmail are pointers so that anonymous sessions (no
// authenticated user yet) round-trip as JSON null rather than zero values.
type Session struct {
	UserID    *uuid.UUID `json:"userId"`
	UserEmail *string    `json:"userEmail"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ForUser builds a session payload for an authenticated user, stamped with
// the current time.
func ForUser(userID uuid.UUID, email string) *Session {
	return &Session{
		UserID:    &userID,
		UserEmail: &email,
		CreatedAt: time.Now().UTC(),
	}
}
