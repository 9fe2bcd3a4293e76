package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
)

type PollRepository interface {
	// Create persists the poll and all of its choices in a single transaction.
	Create(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	// List returns a page of polls ordered by creation time ascending,
	// together with the total number of polls.
	List(ctx context.Context, limit, offset int) ([]*domain.Poll, int64, error)
	ListByCreator(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Poll, int64, error)
	// GetByIDs fetches the given polls in no particular order.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Poll, error)
	CountByCreator(ctx context.Context, userID uuid.UUID) (int64, error)
}

type CreatePollInput struct {
	Question string
	Choices  []string
	Days     int
	Hours    int
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput, creator domain.CallerIdentity) (*domain.PollSummary, error)
	GetAllPolls(ctx context.Context, caller *domain.CallerIdentity, page, size int) (domain.PagedPolls, error)
	GetPollsCreatedBy(ctx context.Context, username string, caller *domain.CallerIdentity, page, size int) (domain.PagedPolls, error)
	GetPollsVotedBy(ctx context.Context, username string, caller *domain.CallerIdentity, page, size int) (domain.PagedPolls, error)
	GetPollByID(ctx context.Context, pollID uuid.UUID, caller *domain.CallerIdentity) (*domain.PollSummary, error)
}
