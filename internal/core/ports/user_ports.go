package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
)

type UserRepository interface {
	// GetByID and GetByUsername return (nil, nil) when no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// GetByIDs fetches the given users in no particular order.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
}

type UserService interface {
	GetMe(ctx context.Context, caller domain.CallerIdentity) (*domain.UserSummary, error)
	GetProfile(ctx context.Context, username string) (*domain.UserProfile, error)
}
