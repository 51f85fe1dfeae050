package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/clientpulse/clientpulse/internal/action"
	"github.com/clientpulse/clientpulse/internal/domain"
)

const (
	dateFormat     = "Jan 2, 2006"
	dateTimeFormat = "Jan 2, 2006 at 15:04"

	// genericClientName replaces obvious placeholder display names so test
	// data never leaks into outbound messages.
	genericClientName = "client"
)

// placeholderNames are display names treated as test data.
var placeholderNames = map[string]bool{
	"test":        true,
	"test client": true,
	"testing":     true,
	"demo":        true,
	"sample":      true,
	"example":     true,
	"asdf":        true,
	"placeholder": true,
	"unknown":     true,
	"n/a":         true,
	"xxx":         true,
}

// Resolver assembles the flat placeholder map a template needs to
// describe an event, plus the entity references actions execute against.
type Resolver struct {
	users     UserSource
	clients   ClientSource
	contracts ContractSource
	invoices  InvoiceSource
	projects  ProjectSource
	meetings  MeetingSource
}

// NewResolver creates a Resolver over the given sources.
func NewResolver(
	users UserSource,
	clients ClientSource,
	contracts ContractSource,
	invoices InvoiceSource,
	projects ProjectSource,
	meetings MeetingSource,
) *Resolver {
	return &Resolver{
		users:     users,
		clients:   clients,
		contracts: contracts,
		invoices:  invoices,
		projects:  projects,
		meetings:  meetings,
	}
}

// Resolve fetches the event's primary entity, its client, the acting
// user's profile and company settings, and derives the placeholder map.
// Every value is a plain string; templates referencing an absent key
// render it as empty, never as a raw marker. Returns ErrEntityNotFound
// when a referenced entity vanished between detection and resolution;
// callers treat that as a benign race and skip the event.
func (r *Resolver) Resolve(ctx context.Context, event domain.Event, userID string) (map[string]string, action.EntityRefs, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, action.EntityRefs{}, err
	}

	context := map[string]string{
		"user_name":    user.Name,
		"user_email":   user.Email,
		"user_company": user.CompanyName,
		"event_date":   event.OccurredAt.Format(dateFormat),
	}
	refs := action.EntityRefs{}

	var clientID string
	switch event.Kind {
	case domain.EventContractSigned:
		contract, err := r.contracts.GetByID(ctx, event.EntityID)
		if err != nil {
			return nil, refs, err
		}
		clientID = contract.ClientID
		refs.ContractID = contract.ID
		context["contract_title"] = contract.Title
		if contract.SignedAt != nil {
			context["signed_date"] = contract.SignedAt.Format(dateFormat)
		}

	case domain.EventPaymentReceived:
		invoice, err := r.invoices.GetByID(ctx, event.EntityID)
		if err != nil {
			return nil, refs, err
		}
		clientID = invoice.ClientID
		refs.InvoiceID = invoice.ID
		context["invoice_number"] = invoice.Number
		context["invoice_amount"] = formatAmount(invoice.AmountCents, invoice.Currency)
		if invoice.PaidAt != nil {
			context["paid_date"] = invoice.PaidAt.Format(dateFormat)
		}

	case domain.EventProjectCompleted:
		project, err := r.projects.GetByID(ctx, event.EntityID)
		if err != nil {
			return nil, refs, err
		}
		clientID = project.ClientID
		refs.ProjectID = project.ID
		context["project_name"] = project.Name
		context["budget_total"] = formatAmount(project.BudgetCents, "USD")
		context["budget_percentage"] = formatBudgetPercentage(project.SpentCents, project.BudgetCents)
		if project.CompletedAt != nil {
			context["completed_date"] = project.CompletedAt.Format(dateFormat)
		}
		if project.DueDate != nil {
			context["due_date"] = project.DueDate.Format(dateFormat)
		}

	case domain.EventClientCreated:
		clientID = event.EntityID

	case domain.EventMeetingUpcoming:
		meeting, err := r.meetings.GetByID(ctx, event.EntityID)
		if err != nil {
			return nil, refs, err
		}
		clientID = meeting.ClientID
		refs.MeetingID = meeting.ID
		context["meeting_title"] = meeting.Title
		context["meeting_date"] = meeting.ScheduledAt.Format(dateTimeFormat)

	default:
		return nil, refs, fmt.Errorf("%w: unknown event kind %q", domain.ErrEntityNotFound, event.Kind)
	}

	client, err := r.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, refs, err
	}
	refs.ClientID = client.ID
	context["client_name"] = sanitizeDisplayName(client.Name)
	context["client_email"] = client.Email
	context["client_company"] = client.Company

	return context, refs, nil
}

// sanitizeDisplayName substitutes a generic fallback for obvious
// placeholder or test display names.
func sanitizeDisplayName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || placeholderNames[strings.ToLower(trimmed)] {
		return genericClientName
	}
	return trimmed
}

// formatAmount renders cents as a human-readable amount with currency.
func formatAmount(cents int64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.2f %s", float64(cents)/100, currency)
}

// formatBudgetPercentage renders spent/budget as a whole percentage.
// A zero budget yields an empty string rather than a division artifact.
func formatBudgetPercentage(spentCents, budgetCents int64) string {
	if budgetCents <= 0 {
		return ""
	}
	return fmt.Sprintf("%.0f%%", float64(spentCents)/float64(budgetCents)*100)
}
