package domain

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Choices   []Choice  `json:"choices"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Choice rows are created together with their poll and never change afterwards.
// Position preserves the order the creator submitted them in.
type Choice struct {
	ID       uuid.UUID `json:"id"`
	PollID   uuid.UUID `json:"poll_id"`
	Text     string    `json:"text"`
	Position int       `json:"-"`
}

// HasChoice reports whether the given choice belongs to this poll.
func (p *Poll) HasChoice(choiceID uuid.UUID) bool {
	for _, c := range p.Choices {
		if c.ID == choiceID {
			return true
		}
	}
	return false
}
