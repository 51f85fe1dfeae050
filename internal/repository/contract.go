package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clientpulse/clientpulse/internal/domain"
)

var contractColumns = []string{"id", "user_id", "client_id", "title", "status", "signed_at", "created_at"}

// ContractRepository handles database operations for contracts.
type ContractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository creates a new ContractRepository.
func NewContractRepository(pool *pgxpool.Pool) *ContractRepository {
	return &ContractRepository{pool: pool}
}

func scanContract(row pgx.Row) (*domain.Contract, error) {
	var contract domain.Contract
	err := row.Scan(
		&contract.ID,
		&contract.UserID,
		&contract.ClientID,
		&contract.Title,
		&contract.Status,
		&contract.SignedAt,
		&contract.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntityNotFound
		}
		return nil, fmt.Errorf("scan contract: %w", err)
	}
	return &contract, nil
}

// GetByID retrieves a contract by ID.
func (r *ContractRepository) GetByID(ctx context.Context, contractID string) (*domain.Contract, error) {
	query, args, err := psql.
		Select(contractColumns...).
		From("contracts").
		Where(sq.Eq{"id": contractID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for contract: %w", err)
	}

	return scanContract(r.pool.QueryRow(ctx, query, args...))
}

// ListSignedSince retrieves contracts that transitioned to signed inside
// the lookback window, oldest first.
func (r *ContractRepository) ListSignedSince(ctx context.Context, userID string, since time.Time) ([]*domain.Contract, error) {
	query, args, err := psql.
		Select(contractColumns...).
		From("contracts").
		Where(sq.Eq{
			"user_id": userID,
			"status":  domain.ContractStatusSigned,
		}).
		Where(sq.GtOrEq{"signed_at": since}).
		OrderBy("signed_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListSignedSince query for contracts: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query signed contracts: %w", err)
	}
	defer rows.Close()

	var contracts []*domain.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, contract)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return contracts, nil
}
