package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clientpulse/clientpulse/internal/action"
	"github.com/clientpulse/clientpulse/internal/delivery"
	"github.com/clientpulse/clientpulse/internal/domain"
)

type fakeUserSource struct {
	users map[string]*domain.User
}

func (f *fakeUserSource) GetByID(_ context.Context, userID string) (*domain.User, error) {
	if user, ok := f.users[userID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserSource) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type fakeClientSource struct {
	clients map[string]*domain.Client
	created []*domain.Client
	err     error
}

func (f *fakeClientSource) GetByID(_ context.Context, clientID string) (*domain.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	if client, ok := f.clients[clientID]; ok {
		return client, nil
	}
	return nil, domain.ErrEntityNotFound
}

func (f *fakeClientSource) ListCreatedSince(_ context.Context, _ string, _ time.Time) ([]*domain.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

type fakeContractSource struct {
	contracts map[string]*domain.Contract
	signed    []*domain.Contract
	err       error
}

func (f *fakeContractSource) GetByID(_ context.Context, contractID string) (*domain.Contract, error) {
	if f.err != nil {
		return nil, f.err
	}
	if contract, ok := f.contracts[contractID]; ok {
		return contract, nil
	}
	return nil, domain.ErrEntityNotFound
}

func (f *fakeContractSource) ListSignedSince(_ context.Context, _ string, _ time.Time) ([]*domain.Contract, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.signed, nil
}

type fakeInvoiceSource struct {
	invoices map[string]*domain.Invoice
	paid     []*domain.Invoice
	err      error
}

func (f *fakeInvoiceSource) GetByID(_ context.Context, invoiceID string) (*domain.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	if invoice, ok := f.invoices[invoiceID]; ok {
		return invoice, nil
	}
	return nil, domain.ErrEntityNotFound
}

func (f *fakeInvoiceSource) ListPaidSince(_ context.Context, _ string, _ time.Time) ([]*domain.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.paid, nil
}

type fakeProjectSource struct {
	projects  map[string]*domain.Project
	completed []*domain.Project
	err       error
}

func (f *fakeProjectSource) GetByID(_ context.Context, projectID string) (*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	if project, ok := f.projects[projectID]; ok {
		return project, nil
	}
	return nil, domain.ErrEntityNotFound
}

func (f *fakeProjectSource) ListCompletedSince(_ context.Context, _ string, _ time.Time) ([]*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.completed, nil
}

type fakeMeetingSource struct {
	meetings map[string]*domain.Meeting
	upcoming []*domain.Meeting
	err      error
}

func (f *fakeMeetingSource) GetByID(_ context.Context, meetingID string) (*domain.Meeting, error) {
	if f.err != nil {
		return nil, f.err
	}
	if meeting, ok := f.meetings[meetingID]; ok {
		return meeting, nil
	}
	return nil, domain.ErrEntityNotFound
}

func (f *fakeMeetingSource) ListUpcomingBetween(_ context.Context, _ string, _, _ time.Time) ([]*domain.Meeting, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.upcoming, nil
}

type fakeRunStore struct {
	runs      []*domain.AutomationRun
	createErr error
	listErr   error
}

func (f *fakeRunStore) Create(_ context.Context, run *domain.AutomationRun) error {
	if f.createErr != nil {
		return f.createErr
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunStore) ListRecent(_ context.Context, userID, insightType string, since time.Time) ([]*domain.AutomationRun, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var recent []*domain.AutomationRun
	for _, run := range f.runs {
		if run.UserID == userID && run.InsightType == insightType && run.CreatedAt.After(since) {
			recent = append(recent, run)
		}
	}
	return recent, nil
}

type fakeAutomationSource struct {
	automations []*domain.Automation
	err         error
}

func (f *fakeAutomationSource) ListActiveByTrigger(_ context.Context, _ string, kind domain.EventKind) ([]*domain.Automation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var matching []*domain.Automation
	for _, automation := range f.automations {
		if automation.TriggerKind == kind {
			matching = append(matching, automation)
		}
	}
	return matching, nil
}

type fakeUpserter struct {
	upserted []*domain.Automation
	err      error
}

func (f *fakeUpserter) Upsert(_ context.Context, automation *domain.Automation) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, automation)
	return nil
}

type fakeSender struct {
	result domain.DeliveryResult
	sent   []delivery.Message
}

func (f *fakeSender) Send(_ context.Context, msg delivery.Message) domain.DeliveryResult {
	f.sent = append(f.sent, msg)
	return f.result
}

type fakeExecutor struct {
	results  map[domain.ActionKind]domain.ActionResult
	executed []domain.Action
}

func (f *fakeExecutor) Execute(_ context.Context, _ *action.Input, act domain.Action) domain.ActionResult {
	f.executed = append(f.executed, act)
	if result, ok := f.results[act.Kind]; ok {
		return result
	}
	return domain.ActionResult{Kind: act.Kind, Success: true}
}
