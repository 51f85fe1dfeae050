package action

import (
	"context"

	"github.com/clientpulse/clientpulse/internal/delivery"
	"github.com/clientpulse/clientpulse/internal/domain"
)

// Sender delivers a rendered message through the configured channel chain.
type Sender interface {
	Send(ctx context.Context, msg delivery.Message) domain.DeliveryResult
}

// FollowUpWriter persists follow-up tasks.
type FollowUpWriter interface {
	Create(ctx context.Context, followUp *domain.FollowUp) (*domain.FollowUp, error)
}

// InvoiceWriter persists draft invoices.
type InvoiceWriter interface {
	CreateDraft(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
}

// ProjectWriter updates project status.
type ProjectWriter interface {
	UpdateStatus(ctx context.Context, projectID string, status domain.ProjectStatus) error
}

// MeetingWriter persists scheduled meetings.
type MeetingWriter interface {
	Schedule(ctx context.Context, meeting *domain.Meeting) (*domain.Meeting, error)
}

// ProposalWriter persists draft proposals.
type ProposalWriter interface {
	CreateDraft(ctx context.Context, proposal *domain.Proposal) (*domain.Proposal, error)
}
