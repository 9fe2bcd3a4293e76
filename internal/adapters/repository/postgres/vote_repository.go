package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
	"github.com/vncsmyrnk/pollingapp/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// Insert relies on the unique index on (user_id, poll_id) to arbitrate
// duplicate casts. This is the only place a constraint violation from the
// store is interpreted; anything else propagates as-is.
func (r *voteRepository) Insert(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (id, user_id, poll_id, choice_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, vote.ID, vote.UserID, vote.PollID, vote.ChoiceID, vote.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

func (r *voteRepository) CountByChoice(ctx context.Context, pollIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	query := `
		SELECT choice_id, COUNT(*)
		FROM votes
		WHERE poll_id = ANY($1)
		GROUP BY choice_id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(pollIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to count votes by choice: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int64)
	for rows.Next() {
		var choiceID uuid.UUID
		var count int64
		if err := rows.Scan(&choiceID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[choiceID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}

	return counts, nil
}

func (r *voteRepository) FindUserVotes(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	query := `
		SELECT poll_id, choice_id
		FROM votes
		WHERE user_id = $1 AND poll_id = ANY($2)
	`
	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(pollIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to find user votes: %w", err)
	}
	defer rows.Close()

	votes := make(map[uuid.UUID]uuid.UUID)
	for rows.Next() {
		var pollID, choiceID uuid.UUID
		if err := rows.Scan(&pollID, &choiceID); err != nil {
			return nil, fmt.Errorf("failed to scan user vote: %w", err)
		}
		votes[pollID] = choiceID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user votes: %w", err)
	}

	return votes, nil
}

func (r *voteRepository) ListVotedPollIDs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]uuid.UUID, int64, error) {
	query := `
		SELECT poll_id
		FROM votes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list voted poll ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("failed to scan voted poll id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating voted poll ids: %w", err)
	}

	total, err := r.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return ids, total, nil
}

func (r *voteRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes by user: %w", err)
	}
	return count, nil
}
