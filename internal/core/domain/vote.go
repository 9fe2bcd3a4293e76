package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is immutable once created. At most one vote exists per (user, poll);
// the votes table enforces this with a unique index.
type Vote struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	PollID    uuid.UUID `json:"poll_id"`
	ChoiceID  uuid.UUID `json:"choice_id"`
	CreatedAt time.Time `json:"created_at"`
}
