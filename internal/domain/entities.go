package domain

import "time"

// User represents a freelancer account.
type User struct {
	ID          string
	Email       string
	Name        string
	CompanyName string
	CreatedAt   time.Time
}

// Client represents a customer of a freelancer.
type Client struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Company   string
	Phone     string
	CreatedAt time.Time
}

// ContractStatus represents the lifecycle state of a contract.
type ContractStatus string

const (
	ContractStatusDraft    ContractStatus = "draft"
	ContractStatusSent     ContractStatus = "sent"
	ContractStatusSigned   ContractStatus = "signed"
	ContractStatusDeclined ContractStatus = "declined"
)

// Contract represents an agreement between a freelancer and a client.
type Contract struct {
	ID        string
	UserID    string
	ClientID  string
	Title     string
	Status    ContractStatus
	SignedAt  *time.Time
	CreatedAt time.Time
}

// InvoiceStatus represents the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice represents a bill issued to a client. Amounts are stored in
// cents to avoid floating point drift.
type Invoice struct {
	ID          string
	UserID      string
	ClientID    string
	Number      string
	Description string
	AmountCents int64
	Currency    string
	Status      InvoiceStatus
	DueDate     *time.Time
	PaidAt      *time.Time
	CreatedAt   time.Time
}

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// IsValid checks if the status is one of the allowed values.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	default:
		return false
	}
}

// Project represents a body of work for a client.
type Project struct {
	ID          string
	UserID      string
	ClientID    string
	Name        string
	Status      ProjectStatus
	BudgetCents int64
	SpentCents  int64
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// Meeting represents a scheduled appointment with a client.
type Meeting struct {
	ID          string
	UserID      string
	ClientID    string
	Title       string
	ScheduledAt time.Time
	CreatedAt   time.Time
}

// FollowUpStatus represents the state of a follow-up task.
type FollowUpStatus string

const (
	FollowUpStatusOpen FollowUpStatus = "open"
	FollowUpStatusDone FollowUpStatus = "done"
)

// FollowUp represents a follow-up task created by an automation action.
type FollowUp struct {
	ID          string
	UserID      string
	ClientID    string
	Title       string
	Description string
	Status      FollowUpStatus
	DueAt       *time.Time
	CreatedAt   time.Time
}

// ProposalStatus represents the lifecycle state of a proposal.
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusAccepted ProposalStatus = "accepted"
)

// Proposal represents a pitch document drafted for a client.
type Proposal struct {
	ID        string
	UserID    string
	ClientID  string
	Title     string
	Content   string
	Status    ProposalStatus
	CreatedAt time.Time
}
