package service

import (
	"context"
	"time"

	"github.com/clientpulse/clientpulse/internal/action"
	"github.com/clientpulse/clientpulse/internal/domain"
)

// UserSource resolves user accounts.
type UserSource interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ClientSource reads clients.
type ClientSource interface {
	GetByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListCreatedSince(ctx context.Context, userID string, since time.Time) ([]*domain.Client, error)
}

// ContractSource reads contracts.
type ContractSource interface {
	GetByID(ctx context.Context, contractID string) (*domain.Contract, error)
	ListSignedSince(ctx context.Context, userID string, since time.Time) ([]*domain.Contract, error)
}

// InvoiceSource reads invoices.
type InvoiceSource interface {
	GetByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListPaidSince(ctx context.Context, userID string, since time.Time) ([]*domain.Invoice, error)
}

// ProjectSource reads projects.
type ProjectSource interface {
	GetByID(ctx context.Context, projectID string) (*domain.Project, error)
	ListCompletedSince(ctx context.Context, userID string, since time.Time) ([]*domain.Project, error)
}

// MeetingSource reads meetings.
type MeetingSource interface {
	GetByID(ctx context.Context, meetingID string) (*domain.Meeting, error)
	ListUpcomingBetween(ctx context.Context, userID string, from, to time.Time) ([]*domain.Meeting, error)
}

// RunStore appends and reads automation run records.
type RunStore interface {
	Create(ctx context.Context, run *domain.AutomationRun) error
	ListRecent(ctx context.Context, userID, insightType string, since time.Time) ([]*domain.AutomationRun, error)
}

// AutomationSource reads stored automation definitions.
type AutomationSource interface {
	ListActiveByTrigger(ctx context.Context, userID string, kind domain.EventKind) ([]*domain.Automation, error)
}

// AutomationUpserter refreshes automation definitions, used by the
// startup file loader.
type AutomationUpserter interface {
	Upsert(ctx context.Context, automation *domain.Automation) error
}

// ActionExecutor runs one automation action.
type ActionExecutor interface {
	Execute(ctx context.Context, in *action.Input, act domain.Action) domain.ActionResult
}
