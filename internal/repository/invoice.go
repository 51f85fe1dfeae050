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

var invoiceColumns = []string{
	"id", "user_id", "client_id", "number", "description", "amount_cents",
	"currency", "status", "due_date", "paid_at", "created_at",
}

// InvoiceRepository handles database operations for invoices.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := row.Scan(
		&invoice.ID,
		&invoice.UserID,
		&invoice.ClientID,
		&invoice.Number,
		&invoice.Description,
		&invoice.AmountCents,
		&invoice.Currency,
		&invoice.Status,
		&invoice.DueDate,
		&invoice.PaidAt,
		&invoice.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntityNotFound
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	return &invoice, nil
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query, args, err := psql.
		Select(invoiceColumns...).
		From("invoices").
		Where(sq.Eq{"id": invoiceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for invoice: %w", err)
	}

	return scanInvoice(r.pool.QueryRow(ctx, query, args...))
}

// ListPaidSince retrieves invoices that transitioned to paid inside the
// lookback window, oldest first.
func (r *InvoiceRepository) ListPaidSince(ctx context.Context, userID string, since time.Time) ([]*domain.Invoice, error) {
	query, args, err := psql.
		Select(invoiceColumns...).
		From("invoices").
		Where(sq.Eq{
			"user_id": userID,
			"status":  domain.InvoiceStatusPaid,
		}).
		Where(sq.GtOrEq{"paid_at": since}).
		OrderBy("paid_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListPaidSince query for invoices: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query paid invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*domain.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return invoices, nil
}

// CreateDraft inserts a draft invoice created by an automation action.
// Returns the invoice with ID and CreatedAt populated.
func (r *InvoiceRepository) CreateDraft(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if invoice.Currency == "" {
		invoice.Currency = "USD"
	}
	invoice.Status = domain.InvoiceStatusDraft

	query, args, err := psql.
		Insert("invoices").
		Columns("user_id", "client_id", "number", "description", "amount_cents", "currency", "status", "due_date").
		Values(
			invoice.UserID,
			invoice.ClientID,
			invoice.Number,
			invoice.Description,
			invoice.AmountCents,
			invoice.Currency,
			invoice.Status,
			invoice.DueDate,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateDraft query for invoice: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&invoice.ID, &invoice.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create draft invoice: %w", err)
	}

	return invoice, nil
}
