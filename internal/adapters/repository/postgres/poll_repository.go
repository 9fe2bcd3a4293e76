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

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Create(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, question, created_by, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, queryPoll, poll.ID, poll.Question, poll.CreatedBy, poll.CreatedAt, poll.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	queryChoice := `
		INSERT INTO choices (id, poll_id, text, position)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, queryChoice)
	if err != nil {
		return fmt.Errorf("failed to prepare choice statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range poll.Choices {
		_, err = stmt.ExecContext(ctx, c.ID, c.PollID, c.Text, c.Position)
		if err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	queryPoll := `
		SELECT id, question, created_by, created_at, expires_at
		FROM polls
		WHERE id = $1
	`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, queryPoll, id).Scan(
		&poll.ID, &poll.Question, &poll.CreatedBy, &poll.CreatedAt, &poll.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("Poll", "id", id)
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if err := r.attachChoices(ctx, []*domain.Poll{&poll}); err != nil {
		return nil, err
	}

	return &poll, nil
}

func (r *pollRepository) List(ctx context.Context, limit, offset int) ([]*domain.Poll, int64, error) {
	query := `
		SELECT id, question, created_by, created_at, expires_at
		FROM polls
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	polls, err := r.scanPolls(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM polls`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count polls: %w", err)
	}

	return polls, total, nil
}

func (r *pollRepository) ListByCreator(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Poll, int64, error) {
	query := `
		SELECT id, question, created_by, created_at, expires_at
		FROM polls
		WHERE created_by = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list polls by creator: %w", err)
	}
	defer rows.Close()

	polls, err := r.scanPolls(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.CountByCreator(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return polls, total, nil
}

func (r *pollRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Poll, error) {
	query := `
		SELECT id, question, created_by, created_at, expires_at
		FROM polls
		WHERE id = ANY($1)
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get polls by ids: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) CountByCreator(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM polls WHERE created_by = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count polls by creator: %w", err)
	}
	return count, nil
}

func (r *pollRepository) scanPolls(ctx context.Context, rows *sql.Rows) ([]*domain.Poll, error) {
	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(&poll.ID, &poll.Question, &poll.CreatedBy, &poll.CreatedAt, &poll.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}

	if err := r.attachChoices(ctx, polls); err != nil {
		return nil, err
	}

	return polls, nil
}

// attachChoices loads the choices for a batch of polls in one query and
// hangs them on their polls in display order.
func (r *pollRepository) attachChoices(ctx context.Context, polls []*domain.Poll) error {
	if len(polls) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(polls))
	byID := make(map[uuid.UUID]*domain.Poll, len(polls))
	for i, p := range polls {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	query := `
		SELECT id, poll_id, text, position
		FROM choices
		WHERE poll_id = ANY($1)
		ORDER BY poll_id, position ASC
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Choice
		if err := rows.Scan(&c.ID, &c.PollID, &c.Text, &c.Position); err != nil {
			return fmt.Errorf("failed to scan choice: %w", err)
		}
		if p, ok := byID[c.PollID]; ok {
			p.Choices = append(p.Choices, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating choices: %w", err)
	}

	return nil
}
