package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clientpulse/clientpulse/internal/domain"
)

// Detector scans the entity store for business-state transitions inside
// a lookback window and maps each matching row to a normalized event.
// Detection is a pure read: running it twice without intervening state
// changes yields the same event set.
type Detector struct {
	contracts ContractSource
	invoices  InvoiceSource
	projects  ProjectSource
	clients   ClientSource
	meetings  MeetingSource
}

// NewDetector creates a Detector over the given entity sources.
func NewDetector(
	contracts ContractSource,
	invoices InvoiceSource,
	projects ProjectSource,
	clients ClientSource,
	meetings MeetingSource,
) *Detector {
	return &Detector{
		contracts: contracts,
		invoices:  invoices,
		projects:  projects,
		clients:   clients,
		meetings:  meetings,
	}
}

// DetectEvents returns the events detected for a user inside the
// lookback window. Kinds are concatenated in a fixed priority order
// (contracts, payments, projects, clients, meetings); within each kind
// events are ordered by ascending occurrence time. A row matching
// multiple predicates yields one event per predicate; downstream dedup
// is keyed by (kind, entity id), so this is safe. An empty result is
// not an error; only an underlying store failure is.
func (d *Detector) DetectEvents(ctx context.Context, userID string, lookbackHours int) ([]domain.Event, error) {
	if lookbackHours <= 0 {
		return nil, domain.ErrInvalidLookback
	}

	now := time.Now()
	since := now.Add(-time.Duration(lookbackHours) * time.Hour)
	events := []domain.Event{}

	contracts, err := d.contracts.ListSignedSince(ctx, userID, since)
	if err != nil {
		return nil, storeFailure("list signed contracts", err)
	}
	for _, contract := range contracts {
		occurredAt := contract.CreatedAt
		if contract.SignedAt != nil {
			occurredAt = *contract.SignedAt
		}
		events = append(events, domain.Event{
			Kind:        domain.EventContractSigned,
			EntityID:    contract.ID,
			OccurredAt:  occurredAt,
			Description: fmt.Sprintf("Contract %q was signed", contract.Title),
		})
	}

	invoices, err := d.invoices.ListPaidSince(ctx, userID, since)
	if err != nil {
		return nil, storeFailure("list paid invoices", err)
	}
	for _, invoice := range invoices {
		occurredAt := invoice.CreatedAt
		if invoice.PaidAt != nil {
			occurredAt = *invoice.PaidAt
		}
		events = append(events, domain.Event{
			Kind:        domain.EventPaymentReceived,
			EntityID:    invoice.ID,
			OccurredAt:  occurredAt,
			Description: fmt.Sprintf("Invoice %s was paid", invoice.Number),
		})
	}

	projects, err := d.projects.ListCompletedSince(ctx, userID, since)
	if err != nil {
		return nil, storeFailure("list completed projects", err)
	}
	for _, project := range projects {
		occurredAt := project.CreatedAt
		if project.CompletedAt != nil {
			occurredAt = *project.CompletedAt
		}
		events = append(events, domain.Event{
			Kind:        domain.EventProjectCompleted,
			EntityID:    project.ID,
			OccurredAt:  occurredAt,
			Description: fmt.Sprintf("Project %q was completed", project.Name),
		})
	}

	clients, err := d.clients.ListCreatedSince(ctx, userID, since)
	if err != nil {
		return nil, storeFailure("list new clients", err)
	}
	for _, client := range clients {
		events = append(events, domain.Event{
			Kind:        domain.EventClientCreated,
			EntityID:    client.ID,
			OccurredAt:  client.CreatedAt,
			Description: fmt.Sprintf("New client %q was added", client.Name),
		})
	}

	// Meetings look forward: the window mirrors the lookback span.
	meetings, err := d.meetings.ListUpcomingBetween(ctx, userID, now, now.Add(time.Duration(lookbackHours)*time.Hour))
	if err != nil {
		return nil, storeFailure("list upcoming meetings", err)
	}
	for _, meeting := range meetings {
		events = append(events, domain.Event{
			Kind:        domain.EventMeetingUpcoming,
			EntityID:    meeting.ID,
			OccurredAt:  meeting.ScheduledAt,
			Description: fmt.Sprintf("Meeting %q is coming up", meeting.Title),
		})
	}

	return events, nil
}

// storeFailure maps an underlying store error to the fatal batch error.
func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}
