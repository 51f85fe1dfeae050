package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clientpulse/clientpulse/internal/domain"
)

// FollowUpRepository handles database operations for follow-up tasks.
type FollowUpRepository struct {
	pool *pgxpool.Pool
}

// NewFollowUpRepository creates a new FollowUpRepository.
func NewFollowUpRepository(pool *pgxpool.Pool) *FollowUpRepository {
	return &FollowUpRepository{pool: pool}
}

// Create inserts a follow-up task created by an automation action.
// Returns the follow-up with ID and CreatedAt populated.
func (r *FollowUpRepository) Create(ctx context.Context, followUp *domain.FollowUp) (*domain.FollowUp, error) {
	if followUp.Status == "" {
		followUp.Status = domain.FollowUpStatusOpen
	}

	query, args, err := psql.
		Insert("follow_ups").
		Columns("user_id", "client_id", "title", "description", "status", "due_at").
		Values(
			followUp.UserID,
			nullableID(followUp.ClientID),
			followUp.Title,
			followUp.Description,
			followUp.Status,
			followUp.DueAt,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for follow-up: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&followUp.ID, &followUp.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create follow-up: %w", err)
	}

	return followUp, nil
}

// nullableID maps an empty id string to SQL NULL for optional references.
func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
