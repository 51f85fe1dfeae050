// Package action executes the declarative actions of an automation
// definition. Dispatch is a closed table over the known action kinds;
// every branch validates its own parameters and returns a typed failure
// instead of panicking, and no branch retries internally.
package action

import (
	"context"
	"fmt"
	"time"

	"github.com/clientpulse/clientpulse/internal/delivery"
	"github.com/clientpulse/clientpulse/internal/domain"
	"github.com/clientpulse/clientpulse/internal/template"
)

const (
	errUnknownActionType = "UnknownActionType"
	errMissingParameter  = "MissingParameter"
)

// EntityRefs carries the ids of the entities an event resolved to, so
// actions can target the right rows without re-detecting.
type EntityRefs struct {
	ClientID   string
	ContractID string
	InvoiceID  string
	ProjectID  string
	MeetingID  string
}

// Input is the resolved material an action executes against: the
// triggering event, the rendered-template context and entity references.
type Input struct {
	UserID  string
	Event   domain.Event
	Context map[string]string
	Refs    EntityRefs
}

type handlerFunc func(ctx context.Context, in *Input, act domain.Action) domain.ActionResult

// Dispatcher executes actions through a per-kind handler table.
type Dispatcher struct {
	handlers map[domain.ActionKind]handlerFunc
}

// NewDispatcher creates a Dispatcher wired to the given collaborators.
func NewDispatcher(
	sender Sender,
	followUps FollowUpWriter,
	invoices InvoiceWriter,
	projects ProjectWriter,
	meetings MeetingWriter,
	proposals ProposalWriter,
) *Dispatcher {
	d := &Dispatcher{}
	d.handlers = map[domain.ActionKind]handlerFunc{
		domain.ActionSendEmail:           d.sendEmail(sender),
		domain.ActionCreateTask:          d.createTask(followUps),
		domain.ActionCreateInvoice:       d.createInvoice(invoices),
		domain.ActionUpdateProjectStatus: d.updateProjectStatus(projects),
		domain.ActionScheduleMeeting:     d.scheduleMeeting(meetings),
		domain.ActionCreateProposal:      d.createProposal(proposals),
	}
	return d
}

// Execute runs one action. An unknown action kind yields a typed failure,
// never a panic.
func (d *Dispatcher) Execute(ctx context.Context, in *Input, act domain.Action) domain.ActionResult {
	handler, ok := d.handlers[act.Kind]
	if !ok {
		return domain.ActionResult{
			Kind:    act.Kind,
			Success: false,
			Error:   errUnknownActionType,
		}
	}
	return handler(ctx, in, act)
}

func (d *Dispatcher) sendEmail(sender Sender) handlerFunc {
	return func(ctx context.Context, in *Input, act domain.Action) domain.ActionResult {
		subject, ok := stringParam(act, "subject")
		if !ok {
			return missingParameter(act.Kind, "subject")
		}
		body, ok := stringParam(act, "body")
		if !ok {
			return missingParameter(act.Kind, "body")
		}

		to, _ := stringParam(act, "to")
		if to == "" {
			to = in.Context["user_email"]
		}
		if to == "" {
			return missingParameter(act.Kind, "to")
		}

		result := sender.Send(ctx, delivery.Message{
			To:      template.Render(to, in.Context),
			Subject: template.Render(subject, in.Context),
			HTML:    template.Render(body, in.Context),
		})
		if !result.Success {
			return domain.ActionResult{
				Kind:    act.Kind,
				Success: false,
				Error:   result.Error,
				Data:    map[string]any{"provider": result.Provider},
			}
		}

		return success(act.Kind, "message sent", map[string]any{
			"provider":   result.Provider,
			"message_id": result.ID,
			"simulated":  result.Simulated,
		})
	}
}

func (d *Dispatcher) createTask(followUps FollowUpWriter) handlerFunc {
	return func(ctx context.Context, in *Input, act domain.Action) domain.ActionResult {
		title, ok := stringParam(act, "title")
		if !ok {
			return missingParameter(act.Kind, "title")
		}
		description, _ := stringParam(act, "description")

		followUp := &domain.FollowUp{
			UserID:      in.UserID,
			ClientID:    in.Refs.ClientID,
			Title:       template.Render(title, in.Context),
			Description: template.Render(description, in.Context),
		}
		if days, ok := numberParam(act, "due_in_days"); ok {
			dueAt := time.Now().AddDate(0, 0, int(days))
			followUp.DueAt = &dueAt
		}

		created, err := followUps.Create(ctx, followUp)
		if err != nil {
			return storeFailure(act.Kind, err)
		}

		return success(act.Kind, "follow-up created", map[string]any{"task_id": created.ID})
	}
}

func (d *Dispatcher) createInvoice(invoices InvoiceWriter) handlerFunc {
	return func(ctx context.Context, in *Input, act domain.Action) domain.ActionResult {
		amount, ok := numberParam(act, "amount_cents")
		if !ok {
			return missingParameter(act.Kind, "amount_cents")
		}
		if in.Refs.ClientID == "" {
			return missingParameter(act.Kind, "client reference")
		}
		description, _ := stringParam(act, "description")

		invoice := &domain.Invoice{
			UserID:      in.UserID,
			ClientID:    in.Refs.ClientID,
			Description: template.Render(description, in.Context),
			AmountCents: int64(amount),
		}
		if currency, ok := stringParam(act, "currency"); ok {
			invoice.Currency = currency
		}
		if days, ok := numberParam(act, "due_in_days"); ok {
			dueDate := time.Now().AddDate(0, 0, int(days))
			invoice.DueDate = &dueDate
		}

		created, err := invoices.CreateDraft(ctx, invoice)
		if err != nil {
			return storeFailure(act.Kind, err)
		}

		return success(act.Kind, "draft invoice created", map[string]any{"invoice_id": created.ID})
	}
}

func (d *Dispatcher) updateProjectStatus(projects ProjectWriter) handlerFunc {
	return func(ctx context.Context, in *Input, act domain.Action) domain.ActionResult {
		statusValue, ok := stringParam(act, "status")
		if !ok {
			return missingParameter(act.Kind, "status")
		}
		status := domain.ProjectStatus(statusValue)
		if !status.IsValid() {
			return domain.ActionResult{
				Kind:    act.Kind,
				Success: false,
				Error:   fmt.Sprintf("invalid project status %q", statusValue),
			}
		}
		if in.Refs.ProjectID == "" {
			return missingParameter(act.Kind, "project reference")
		}

		if err := projects.UpdateStatus(ctx, in.Refs.ProjectID, status); err != nil {
			return storeFailure(act.Kind, err)
		}

		return success(act.Kind, "project status updated", map[string]any{
			"project_id": in.Refs.ProjectID,
			"status":     string(status),
		})
	}
}

func (d *Dispatcher) scheduleMeeting(meetings MeetingWriter) handlerFunc {
	return func(ctx context.Context, in *Input, act domain.Action) domain.ActionResult {
		title, ok := stringParam(act, "title")
		if !ok {
			return missingParameter(act.Kind, "title")
		}
		if in.Refs.ClientID == "" {
			return missingParameter(act.Kind, "client reference")
		}

		daysAhead := 7.0
		if days, ok := numberParam(act, "days_ahead"); ok {
			daysAhead = days
		}

		meeting := &domain.Meeting{
			UserID:      in.UserID,
			ClientID:    in.Refs.ClientID,
			Title:       template.Render(title, in.Context),
			ScheduledAt: time.Now().AddDate(0, 0, int(daysAhead)),
		}

		created, err := meetings.Schedule(ctx, meeting)
		if err != nil {
			return storeFailure(act.Kind, err)
		}

		return success(act.Kind, "meeting scheduled", map[string]any{"meeting_id": created.ID})
	}
}

func (d *Dispatcher) createProposal(proposals ProposalWriter) handlerFunc {
	return func(ctx context.Context, in *Input, act domain.Action) domain.ActionResult {
		title, ok := stringParam(act, "title")
		if !ok {
			return missingParameter(act.Kind, "title")
		}
		content, _ := stringParam(act, "content")

		proposal := &domain.Proposal{
			UserID:   in.UserID,
			ClientID: in.Refs.ClientID,
			Title:    template.Render(title, in.Context),
			Content:  template.Render(content, in.Context),
		}

		created, err := proposals.CreateDraft(ctx, proposal)
		if err != nil {
			return storeFailure(act.Kind, err)
		}

		return success(act.Kind, "draft proposal created", map[string]any{"proposal_id": created.ID})
	}
}

// stringParam extracts a non-empty string parameter.
func stringParam(act domain.Action, key string) (string, bool) {
	value, ok := act.Parameters[key].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// numberParam extracts a numeric parameter. JSON decoding yields float64,
// YAML decoding yields int; both are accepted.
func numberParam(act domain.Action, key string) (float64, bool) {
	switch value := act.Parameters[key].(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	default:
		return 0, false
	}
}

func missingParameter(kind domain.ActionKind, name string) domain.ActionResult {
	return domain.ActionResult{
		Kind:    kind,
		Success: false,
		Error:   fmt.Sprintf("%s: %s", errMissingParameter, name),
	}
}

func storeFailure(kind domain.ActionKind, err error) domain.ActionResult {
	return domain.ActionResult{
		Kind:    kind,
		Success: false,
		Error:   err.Error(),
	}
}

func success(kind domain.ActionKind, message string, data map[string]any) domain.ActionResult {
	return domain.ActionResult{
		Kind:    kind,
		Success: true,
		Message: message,
		Data:    data,
	}
}
