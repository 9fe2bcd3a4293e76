package domain

import (
	"time"

	"github.com/google/uuid"
)

// PollSummary is the response shape for a poll: the poll itself plus vote
// tallies, creator details and, for authenticated callers, their own choice.
type PollSummary struct {
	ID             uuid.UUID       `json:"id"`
	Question       string          `json:"question"`
	CreatedAt      time.Time       `json:"created_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
	Expired        bool            `json:"expired"`
	Choices        []ChoiceSummary `json:"choices"`
	CreatedBy      UserSummary     `json:"created_by"`
	SelectedChoice *uuid.UUID      `json:"selected_choice,omitempty"`
	TotalVotes     int64           `json:"total_votes"`
}

type ChoiceSummary struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	VoteCount int64     `json:"vote_count"`
}

type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

// UserProfile is the public view of a user together with activity counts.
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	JoinedAt  time.Time `json:"joined_at"`
	PollCount int64     `json:"poll_count"`
	VoteCount int64     `json:"vote_count"`
}

// PagedPolls wraps a page of poll summaries with pagination metadata.
type PagedPolls struct {
	Content       []PollSummary `json:"content"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"total_elements"`
	TotalPages    int           `json:"total_pages"`
	Last          bool          `json:"last"`
}

// NewPagedPolls computes the derived pagination fields from the raw totals.
func NewPagedPolls(content []PollSummary, page, size int, totalElements int64) PagedPolls {
	if content == nil {
		content = []PollSummary{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((totalElements + int64(size) - 1) / int64(size))
	}
	return PagedPolls{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		Last:          page >= totalPages-1,
	}
}
