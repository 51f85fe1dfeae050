package action_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientpulse/clientpulse/internal/action"
	"github.com/clientpulse/clientpulse/internal/delivery"
	"github.com/clientpulse/clientpulse/internal/domain"
)

type fakeSender struct {
	sent   []delivery.Message
	result domain.DeliveryResult
}

func (f *fakeSender) Send(_ context.Context, msg delivery.Message) domain.DeliveryResult {
	f.sent = append(f.sent, msg)
	return f.result
}

type fakeFollowUps struct {
	created *domain.FollowUp
	err     error
}

func (f *fakeFollowUps) Create(_ context.Context, followUp *domain.FollowUp) (*domain.FollowUp, error) {
	if f.err != nil {
		return nil, f.err
	}
	followUp.ID = "task-1"
	f.created = followUp
	return followUp, nil
}

type fakeInvoices struct {
	created *domain.Invoice
}

func (f *fakeInvoices) CreateDraft(_ context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	invoice.ID = "inv-9"
	f.created = invoice
	return invoice, nil
}

type fakeProjects struct {
	projectID string
	status    domain.ProjectStatus
	err       error
}

func (f *fakeProjects) UpdateStatus(_ context.Context, projectID string, status domain.ProjectStatus) error {
	if f.err != nil {
		return f.err
	}
	f.projectID = projectID
	f.status = status
	return nil
}

type fakeMeetings struct {
	created *domain.Meeting
}

func (f *fakeMeetings) Schedule(_ context.Context, meeting *domain.Meeting) (*domain.Meeting, error) {
	meeting.ID = "mtg-3"
	f.created = meeting
	return meeting, nil
}

type fakeProposals struct {
	created *domain.Proposal
}

func (f *fakeProposals) CreateDraft(_ context.Context, proposal *domain.Proposal) (*domain.Proposal, error) {
	proposal.ID = "prop-2"
	f.created = proposal
	return proposal, nil
}

type dispatcherFixture struct {
	dispatcher *action.Dispatcher
	sender     *fakeSender
	followUps  *fakeFollowUps
	invoices   *fakeInvoices
	projects   *fakeProjects
	meetings   *fakeMeetings
	proposals  *fakeProposals
}

func newFixture() *dispatcherFixture {
	f := &dispatcherFixture{
		sender:    &fakeSender{result: domain.DeliveryResult{Success: true, Provider: "log", ID: "d-1", Simulated: true}},
		followUps: &fakeFollowUps{},
		invoices:  &fakeInvoices{},
		projects:  &fakeProjects{},
		meetings:  &fakeMeetings{},
		proposals: &fakeProposals{},
	}
	f.dispatcher = action.NewDispatcher(f.sender, f.followUps, f.invoices, f.projects, f.meetings, f.proposals)
	return f
}

func sampleInput() *action.Input {
	return &action.Input{
		UserID: "user-1",
		Event: domain.Event{
			Kind:       domain.EventPaymentReceived,
			EntityID:   "inv-1",
			OccurredAt: time.Now(),
		},
		Context: map[string]string{
			"client_name":    "Acme Corp",
			"user_email":     "me@studio.dev",
			"invoice_number": "INV-001",
		},
		Refs: action.EntityRefs{ClientID: "client-1", InvoiceID: "inv-1", ProjectID: "proj-1"},
	}
}

func TestExecuteUnknownActionType(t *testing.T) {
	f := newFixture()

	result := f.dispatcher.Execute(context.Background(), sampleInput(), domain.Action{
		Kind: domain.ActionKind("launch_rocket"),
	})

	assert.False(t, result.Success)
	assert.Equal(t, "UnknownActionType", result.Error)
}

func TestExecuteSendEmail(t *testing.T) {
	f := newFixture()

	result := f.dispatcher.Execute(context.Background(), sampleInput(), domain.Action{
		Kind: domain.ActionSendEmail,
		Parameters: map[string]any{
			"subject": "Invoice {{invoice_number}} paid",
			"body":    "<p>Thanks {{client_name}}!</p>",
		},
	})

	require.True(t, result.Success)
	require.Len(t, f.sender.sent, 1)
	msg := f.sender.sent[0]
	assert.Equal(t, "me@studio.dev", msg.To)
	assert.Equal(t, "Invoice INV-001 paid", msg.Subject)
	assert.Equal(t, "<p>Thanks Acme Corp!</p>", msg.HTML)
	assert.Equal(t, "d-1", result.Data["message_id"])
}

func TestExecuteSendEmailMissingSubject(t *testing.T) {
	f := newFixture()

	result := f.dispatcher.Execute(context.Background(), sampleInput(), domain.Action{
		Kind:       domain.ActionSendEmail,
		Parameters: map[string]any{"body": "<p>hi</p>"},
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "MissingParameter")
	assert.Empty(t, f.sender.sent)
}

func TestExecuteSendEmailDeliveryFailure(t *testing.T) {
	f := newFixture()
	f.sender.result = domain.DeliveryResult{Success: false, Provider: "resend", Error: "timeout"}

	result := f.dispatcher.Execute(context.Background(), sampleInput(), domain.Action{
		Kind: domain.ActionSendEmail,
		Parameters: map[string]any{
			"subject": "s",
			"body":    "b",
		},
	})

	assert.False(t, result.Success)
	assert.Equal(t, "timeout", result.Error)
	assert.Equal(t, "resend", result.Data["provider"])
}

func TestExecuteCreateTask(t *testing.T) {
	f := newFixture()

	result := f.dispatcher.Execute(context.Background(), sampleInput(), domain.Action{
		Kind: domain.ActionCreateTask,
		Parameters: map[string]any{
			"title":       "Follow up with {{client_name}}",
			"due_in_days": float64(3),
		},
	})

	require.True(t, result.Success)
	assert.Equal(t, "task-1", result.Data["task_id"])
	require.NotNil(t, f.followUps.created)
	assert.Equal(t, "Follow up with Acme Corp", f.followUps.created.Title)
	assert.Equal(t, "client-1", f.followUps.created.ClientID)
	require.NotNil(t, f.followUps.created.DueAt)
}

func TestExecuteCreateTaskStoreError(t *testing.T) {
	f := newFixture()
	f.followUps.err = errors.New("insert follow-up: connection refused")

	result := f.dispatcher.Execute(context.Background(), sampleInput(), domain.Action{
		Kind:       domain.ActionCreateTask,
		Parameters: map[string]any{"title": "t"},
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "connection refused")
}

func TestExecuteCreateInvoice(t *testing.T) {
	f := newFixture()

	result := f.dispatcher.Execute(context.Background(), sampleInput(), domain.Action{
		Kind: domain.ActionCreateInvoice,
		Parameters: map[string]any{
			"amount_cents": float64(150000),
			"description":  "Retainer for {{client_name}}",
			"currency":     "EUR",
		},
	})

	require.True(t, result.Success)
	assert.Equal(t, "inv-9", result.Data["invoice_id"])
	assert.Equal(t, int64(150000), f.invoices.created.AmountCents)
	assert.Equal(t, "EUR", f.invoices.created.Currency)
	assert.Equal(t, "Retainer for Acme Corp", f.invoices.created.Description)
}

func TestExecuteCreateInvoiceMissingAmount(t *testing.T) {
	f := newFixture()

	result := f.dispatcher.Execute(context.Background(), sampleInput(), domain.Action{
		Kind:       domain.ActionCreateInvoice,
		Parameters: map[string]any{"description": "d"},
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "MissingParameter")
}

func TestExecuteUpdateProjectStatus(t *testing.T) {
	f := newFixture()

	result := f.dispatcher.Execute(context.Background(), sampleInput(), domain.Action{
		Kind:       domain.ActionUpdateProjectStatus,
		Parameters: map[string]any{"status": "on_hold"},
	})

	require.True(t, result.Success)
	assert.Equal(t, "proj-1", f.projects.projectID)
	assert.Equal(t, domain.ProjectStatusOnHold, f.projects.status)
}

func TestExecuteUpdateProjectStatusInvalidStatus(t *testing.T) {
	f := newFixture()

	result := f.dispatcher.Execute(context.Background(), sampleInput(), domain.Action{
		Kind:       domain.ActionUpdateProjectStatus,
		Parameters: map[string]any{"status": "exploded"},
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "invalid project status")
}

func TestExecuteUpdateProjectStatusWithoutProjectRef(t *testing.T) {
	f := newFixture()
	in := sampleInput()
	in.Refs.ProjectID = ""

	result := f.dispatcher.Execute(context.Background(), in, domain.Action{
		Kind:       domain.ActionUpdateProjectStatus,
		Parameters: map[string]any{"status": "completed"},
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "MissingParameter")
}

func TestExecuteScheduleMeeting(t *testing.T) {
	f := newFixture()

	result := f.dispatcher.Execute(context.Background(), sampleInput(), domain.Action{
		Kind: domain.ActionScheduleMeeting,
		Parameters: map[string]any{
			"title":      "Kickoff with {{client_name}}",
			"days_ahead": float64(2),
		},
	})

	require.True(t, result.Success)
	assert.Equal(t, "mtg-3", result.Data["meeting_id"])
	assert.Equal(t, "Kickoff with Acme Corp", f.meetings.created.Title)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 2), f.meetings.created.ScheduledAt, time.Minute)
}

func TestExecuteCreateProposal(t *testing.T) {
	f := newFixture()

	result := f.dispatcher.Execute(context.Background(), sampleInput(), domain.Action{
		Kind: domain.ActionCreateProposal,
		Parameters: map[string]any{
			"title":   "Next phase for {{client_name}}",
			"content": "<h1>Proposal</h1>",
		},
	})

	require.True(t, result.Success)
	assert.Equal(t, "prop-2", result.Data["proposal_id"])
	assert.Equal(t, "Next phase for Acme Corp", f.proposals.created.Title)
}
