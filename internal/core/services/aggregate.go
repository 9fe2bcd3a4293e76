package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
	"github.com/vncsmyrnk/pollingapp/internal/core/ports"
)

// aggregator assembles poll summaries for a batch of polls. All store data
// for a batch is fetched in three queries keyed by the poll id set (vote
// counts, caller votes, creators) regardless of the batch size; the assembly
// itself is pure.
type aggregator struct {
	voteRepo ports.VoteRepository
	userRepo ports.UserRepository
}

// summarize fetches the batched inputs for the given polls and assembles
// their summaries. callerVotes is only fetched for authenticated callers;
// anonymous callers get no selected-choice annotation.
func (a aggregator) summarize(ctx context.Context, polls []*domain.Poll, caller *domain.CallerIdentity) ([]domain.PollSummary, error) {
	pollIDs := make([]uuid.UUID, len(polls))
	for i, p := range polls {
		pollIDs[i] = p.ID
	}

	voteCounts, err := a.voteRepo.CountByChoice(ctx, pollIDs)
	if err != nil {
		return nil, fmt.Errorf("count votes by choice: %w", err)
	}

	var callerVotes map[uuid.UUID]uuid.UUID
	if caller != nil {
		callerVotes, err = a.voteRepo.FindUserVotes(ctx, caller.ID, pollIDs)
		if err != nil {
			return nil, fmt.Errorf("find caller votes: %w", err)
		}
	}

	creators, err := a.fetchCreators(ctx, polls)
	if err != nil {
		return nil, err
	}

	return buildSummaries(polls, voteCounts, creators, callerVotes, time.Now())
}

// summarizeOne is the batch-of-one path used right after a vote insert,
// where the caller's selection is already known and must not be re-queried.
func (a aggregator) summarizeOne(ctx context.Context, poll *domain.Poll, selected *uuid.UUID) (*domain.PollSummary, error) {
	voteCounts, err := a.voteRepo.CountByChoice(ctx, []uuid.UUID{poll.ID})
	if err != nil {
		return nil, fmt.Errorf("count votes by choice: %w", err)
	}

	creators, err := a.fetchCreators(ctx, []*domain.Poll{poll})
	if err != nil {
		return nil, err
	}

	var callerVotes map[uuid.UUID]uuid.UUID
	if selected != nil {
		callerVotes = map[uuid.UUID]uuid.UUID{poll.ID: *selected}
	}

	summaries, err := buildSummaries([]*domain.Poll{poll}, voteCounts, creators, callerVotes, time.Now())
	if err != nil {
		return nil, err
	}
	return &summaries[0], nil
}

func (a aggregator) fetchCreators(ctx context.Context, polls []*domain.Poll) (map[uuid.UUID]*domain.User, error) {
	seen := make(map[uuid.UUID]struct{}, len(polls))
	ids := make([]uuid.UUID, 0, len(polls))
	for _, p := range polls {
		if _, ok := seen[p.CreatedBy]; ok {
			continue
		}
		seen[p.CreatedBy] = struct{}{}
		ids = append(ids, p.CreatedBy)
	}

	users, err := a.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch poll creators: %w", err)
	}

	creators := make(map[uuid.UUID]*domain.User, len(users))
	for _, u := range users {
		creators[u.ID] = u
	}
	return creators, nil
}

// buildSummaries is the pure assembly step. Choices with no counted votes get
// a zero count, totals are summed from the assembled choice list, and expired
// is evaluated against now for each poll independently. A poll whose creator
// is missing from the creator map breaks an invariant every poll row is
// expected to satisfy, so that is surfaced as a ConsistencyError.
func buildSummaries(polls []*domain.Poll, voteCounts map[uuid.UUID]int64, creators map[uuid.UUID]*domain.User, callerVotes map[uuid.UUID]uuid.UUID, now time.Time) ([]domain.PollSummary, error) {
	summaries := make([]domain.PollSummary, 0, len(polls))
	for _, poll := range polls {
		creator, ok := creators[poll.CreatedBy]
		if !ok {
			return nil, domain.NewConsistencyError("poll %s has no resolvable creator %s", poll.ID, poll.CreatedBy)
		}

		choices := make([]domain.ChoiceSummary, 0, len(poll.Choices))
		var totalVotes int64
		for _, c := range poll.Choices {
			count := voteCounts[c.ID]
			totalVotes += count
			choices = append(choices, domain.ChoiceSummary{
				ID:        c.ID,
				Text:      c.Text,
				VoteCount: count,
			})
		}

		summary := domain.PollSummary{
			ID:        poll.ID,
			Question:  poll.Question,
			CreatedAt: poll.CreatedAt,
			ExpiresAt: poll.ExpiresAt,
			Expired:   poll.ExpiresAt.Before(now),
			Choices:   choices,
			CreatedBy: domain.UserSummary{
				ID:       creator.ID,
				Username: creator.Username,
				Name:     creator.Name,
			},
			TotalVotes: totalVotes,
		}

		if choiceID, ok := callerVotes[poll.ID]; ok {
			selected := choiceID
			summary.SelectedChoice = &selected
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}
