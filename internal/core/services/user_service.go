package services

import (
	"context"
	"fmt"

	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
	"github.com/vncsmyrnk/pollingapp/internal/core/ports"
)

type userService struct {
	userRepo ports.UserRepository
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
}

func NewUserService(userRepo ports.UserRepository, pollRepo ports.PollRepository, voteRepo ports.VoteRepository) ports.UserService {
	return &userService{
		userRepo: userRepo,
		pollRepo: pollRepo,
		voteRepo: voteRepo,
	}
}

func (s *userService) GetMe(ctx context.Context, caller domain.CallerIdentity) (*domain.UserSummary, error) {
	return &domain.UserSummary{
		ID:       caller.ID,
		Username: caller.Username,
		Name:     caller.Name,
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, username string) (*domain.UserProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	if user == nil {
		return nil, domain.NewNotFound("User", "username", username)
	}

	pollCount, err := s.pollRepo.CountByCreator(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count polls created by user: %w", err)
	}

	voteCount, err := s.voteRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count votes cast by user: %w", err)
	}

	return &domain.UserProfile{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		JoinedAt:  user.CreatedAt,
		PollCount: pollCount,
		VoteCount: voteCount,
	}, nil
}
