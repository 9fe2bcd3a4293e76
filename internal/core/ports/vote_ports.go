package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
)

type VoteRepository interface {
	// Insert attempts the unique (user, poll) insert. It returns
	// domain.ErrAlreadyVoted when the store's unique index rejects the row;
	// concurrent duplicate casts are serialized by the index, not by a
	// prior read.
	Insert(ctx context.Context, vote *domain.Vote) error
	// CountByChoice tallies votes grouped by choice across all given polls
	// in one query.
	CountByChoice(ctx context.Context, pollIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	// FindUserVotes returns the choice the user picked per poll, for the
	// polls among pollIDs the user has voted on.
	FindUserVotes(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
	// ListVotedPollIDs returns a page of poll ids the user has voted on,
	// most recent vote first, together with the total.
	ListVotedPollIDs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]uuid.UUID, int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type VoteService interface {
	CastVote(ctx context.Context, pollID, choiceID uuid.UUID, caller domain.CallerIdentity) (*domain.PollSummary, error)
}
