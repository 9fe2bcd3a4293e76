package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is owned by the identity subsystem; this service only reads it.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CallerIdentity is the authenticated user behind the current request, when
// there is one. Requests without a valid access token carry no identity.
type CallerIdentity struct {
	ID       uuid.UUID
	Username string
	Name     string
}
