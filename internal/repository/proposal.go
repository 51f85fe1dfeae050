package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clientpulse/clientpulse/internal/domain"
)

// ProposalRepository handles database operations for proposals.
type ProposalRepository struct {
	pool *pgxpool.Pool
}

// NewProposalRepository creates a new ProposalRepository.
func NewProposalRepository(pool *pgxpool.Pool) *ProposalRepository {
	return &ProposalRepository{pool: pool}
}

// CreateDraft inserts a draft proposal created by an automation action.
// Returns the proposal with ID and CreatedAt populated.
func (r *ProposalRepository) CreateDraft(ctx context.Context, proposal *domain.Proposal) (*domain.Proposal, error) {
	proposal.Status = domain.ProposalStatusDraft

	query, args, err := psql.
		Insert("proposals").
		Columns("user_id", "client_id", "title", "content", "status").
		Values(
			proposal.UserID,
			nullableID(proposal.ClientID),
			proposal.Title,
			proposal.Content,
			proposal.Status,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateDraft query for proposal: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&proposal.ID, &proposal.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create draft proposal: %w", err)
	}

	return proposal, nil
}
