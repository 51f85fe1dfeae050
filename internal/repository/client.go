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

var clientColumns = []string{"id", "user_id", "name", "email", "company", "phone", "created_at"}

// ClientRepository handles database operations for clients.
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var client domain.Client
	err := row.Scan(
		&client.ID,
		&client.UserID,
		&client.Name,
		&client.Email,
		&client.Company,
		&client.Phone,
		&client.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntityNotFound
		}
		return nil, fmt.Errorf("scan client: %w", err)
	}
	return &client, nil
}

func scanClients(rows pgx.Rows) ([]*domain.Client, error) {
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return clients, nil
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query, args, err := psql.
		Select(clientColumns...).
		From("clients").
		Where(sq.Eq{"id": clientID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for client: %w", err)
	}

	return scanClient(r.pool.QueryRow(ctx, query, args...))
}

// ListCreatedSince retrieves clients created inside the lookback window,
// oldest first.
func (r *ClientRepository) ListCreatedSince(ctx context.Context, userID string, since time.Time) ([]*domain.Client, error) {
	query, args, err := psql.
		Select(clientColumns...).
		From("clients").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"created_at": since}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListCreatedSince query for clients: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}

	return scanClients(rows)
}
