package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
	"github.com/vncsmyrnk/pollingapp/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	agg      aggregator
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, userRepo ports.UserRepository) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		agg:      aggregator{voteRepo: voteRepo, userRepo: userRepo},
	}
}

// CastVote records the caller's vote and returns the poll's updated summary.
// Expiration and choice membership are checked up front, but uniqueness is
// decided solely by the store's unique index at insert time: a read-then-write
// check here would let two concurrent casts by the same user both pass.
func (s *voteService) CastVote(ctx context.Context, pollID, choiceID uuid.UUID, caller domain.CallerIdentity) (*domain.PollSummary, error) {
	now := time.Now()

	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if !poll.ExpiresAt.After(now) {
		return nil, domain.ErrPollExpired
	}

	if !poll.HasChoice(choiceID) {
		return nil, domain.NewNotFound("Choice", "id", choiceID)
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		UserID:    caller.ID,
		PollID:    pollID,
		ChoiceID:  choiceID,
		CreatedAt: now,
	}

	if err := s.voteRepo.Insert(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			// Expected outcome of a duplicate submit or a racing retry;
			// exactly one of the racing casts got through.
			logrus.WithFields(logrus.Fields{
				"user_id": caller.ID,
				"poll_id": pollID,
			}).Info("vote rejected: user has already voted on this poll")
			return nil, domain.ErrAlreadyVoted
		}
		return nil, err
	}

	// The just-cast choice is the caller's selection; no need to query for it.
	return s.agg.summarizeOne(ctx, poll, &choiceID)
}
