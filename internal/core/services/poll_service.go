package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
	"github.com/vncsmyrnk/pollingapp/internal/core/ports"
)

const (
	maxPollLengthDays  = 7
	maxPollLengthHours = 23
)

type pollService struct {
	pollRepo        ports.PollRepository
	userRepo        ports.UserRepository
	agg             aggregator
	defaultPageSize int
	maxPageSize     int
}

func NewPollService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, userRepo ports.UserRepository, defaultPageSize, maxPageSize int) ports.PollService {
	return &pollService{
		pollRepo:        pollRepo,
		userRepo:        userRepo,
		agg:             aggregator{voteRepo: voteRepo, userRepo: userRepo},
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput, creator domain.CallerIdentity) (*domain.PollSummary, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, domain.NewBadRequest("question is required")
	}
	if input.Days < 0 || input.Days > maxPollLengthDays {
		return nil, domain.NewBadRequest(fmt.Sprintf("poll length days must be between 0 and %d", maxPollLengthDays))
	}
	if input.Hours < 0 || input.Hours > maxPollLengthHours {
		return nil, domain.NewBadRequest(fmt.Sprintf("poll length hours must be between 0 and %d", maxPollLengthHours))
	}

	now := time.Now()
	pollID := uuid.New()

	poll := &domain.Poll{
		ID:        pollID,
		Question:  input.Question,
		CreatedBy: creator.ID,
		CreatedAt: now,
		// Computed once at creation and never recomputed.
		ExpiresAt: now.Add(time.Duration(input.Days)*24*time.Hour + time.Duration(input.Hours)*time.Hour),
	}

	for i, text := range input.Choices {
		if strings.TrimSpace(text) == "" {
			return nil, domain.NewBadRequest("choice text must not be empty")
		}
		poll.Choices = append(poll.Choices, domain.Choice{
			ID:       uuid.New(),
			PollID:   pollID,
			Text:     text,
			Position: i,
		})
	}
	if len(poll.Choices) < 2 {
		return nil, domain.NewBadRequest("at least two choices are required")
	}

	if err := s.pollRepo.Create(ctx, poll); err != nil {
		return nil, fmt.Errorf("create poll: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"poll_id": poll.ID,
		"user_id": creator.ID,
	}).Info("poll created")

	// A fresh poll has no votes, so the summary is assembled without
	// touching the vote tables.
	creators := map[uuid.UUID]*domain.User{
		creator.ID: {ID: creator.ID, Username: creator.Username, Name: creator.Name},
	}
	summaries, err := buildSummaries([]*domain.Poll{poll}, nil, creators, nil, now)
	if err != nil {
		return nil, err
	}
	return &summaries[0], nil
}

func (s *pollService) GetAllPolls(ctx context.Context, caller *domain.CallerIdentity, page, size int) (domain.PagedPolls, error) {
	page, size, err := s.validatePageParams(page, size)
	if err != nil {
		return domain.PagedPolls{}, err
	}

	polls, total, err := s.pollRepo.List(ctx, size, page*size)
	if err != nil {
		return domain.PagedPolls{}, fmt.Errorf("list polls: %w", err)
	}

	return s.assemblePage(ctx, polls, caller, page, size, total)
}

func (s *pollService) GetPollsCreatedBy(ctx context.Context, username string, caller *domain.CallerIdentity, page, size int) (domain.PagedPolls, error) {
	page, size, err := s.validatePageParams(page, size)
	if err != nil {
		return domain.PagedPolls{}, err
	}

	user, err := s.lookupUser(ctx, username)
	if err != nil {
		return domain.PagedPolls{}, err
	}

	polls, total, err := s.pollRepo.ListByCreator(ctx, user.ID, size, page*size)
	if err != nil {
		return domain.PagedPolls{}, fmt.Errorf("list polls by creator: %w", err)
	}

	return s.assemblePage(ctx, polls, caller, page, size, total)
}

func (s *pollService) GetPollsVotedBy(ctx context.Context, username string, caller *domain.CallerIdentity, page, size int) (domain.PagedPolls, error) {
	page, size, err := s.validatePageParams(page, size)
	if err != nil {
		return domain.PagedPolls{}, err
	}

	user, err := s.lookupUser(ctx, username)
	if err != nil {
		return domain.PagedPolls{}, err
	}

	pollIDs, total, err := s.agg.voteRepo.ListVotedPollIDs(ctx, user.ID, size, page*size)
	if err != nil {
		return domain.PagedPolls{}, fmt.Errorf("list voted poll ids: %w", err)
	}
	if len(pollIDs) == 0 {
		return domain.NewPagedPolls(nil, page, size, total), nil
	}

	// The id page and the poll fetch are independent round-trips; the rows
	// come back unordered and must be put back in the id page's order.
	polls, err := s.pollRepo.GetByIDs(ctx, pollIDs)
	if err != nil {
		return domain.PagedPolls{}, fmt.Errorf("fetch voted polls: %w", err)
	}

	byID := make(map[uuid.UUID]*domain.Poll, len(polls))
	for _, p := range polls {
		byID[p.ID] = p
	}
	ordered := make([]*domain.Poll, 0, len(pollIDs))
	for _, id := range pollIDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return s.assemblePage(ctx, ordered, caller, page, size, total)
}

func (s *pollService) GetPollByID(ctx context.Context, pollID uuid.UUID, caller *domain.CallerIdentity) (*domain.PollSummary, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.agg.summarize(ctx, []*domain.Poll{poll}, caller)
	if err != nil {
		return nil, err
	}
	return &summaries[0], nil
}

// assemblePage short-circuits empty pages so no aggregation queries run for
// them; the pagination metadata still reflects the real totals.
func (s *pollService) assemblePage(ctx context.Context, polls []*domain.Poll, caller *domain.CallerIdentity, page, size int, total int64) (domain.PagedPolls, error) {
	if len(polls) == 0 {
		return domain.NewPagedPolls(nil, page, size, total), nil
	}

	summaries, err := s.agg.summarize(ctx, polls, caller)
	if err != nil {
		return domain.PagedPolls{}, err
	}
	return domain.NewPagedPolls(summaries, page, size, total), nil
}

func (s *pollService) lookupUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	if user == nil {
		return nil, domain.NewNotFound("User", "username", username)
	}
	return user, nil
}

func (s *pollService) validatePageParams(page, size int) (int, int, error) {
	if page < 0 {
		return 0, 0, domain.NewBadRequest("page number cannot be less than zero")
	}
	if size <= 0 {
		size = s.defaultPageSize
	}
	if size > s.maxPageSize {
		return 0, 0, domain.NewBadRequest(fmt.Sprintf("page size must not be greater than %d", s.maxPageSize))
	}
	return page, size, nil
}
