package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientpulse/clientpulse/internal/domain"
	"github.com/clientpulse/clientpulse/internal/handler/dto"
	"github.com/clientpulse/clientpulse/internal/middleware"
	"github.com/clientpulse/clientpulse/internal/service"
)

const testToken = "test-token"

type fakeEngine struct {
	summary *service.RunSummary
	err     error
	params  service.RunParams
}

func (f *fakeEngine) Run(_ context.Context, params service.RunParams) (*service.RunSummary, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func (f *fakeEngine) Preview(_ context.Context, params service.RunParams) (*service.RunSummary, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

type fakeAutomationStore struct {
	automations []*domain.Automation
	err         error
}

func (f *fakeAutomationStore) List(_ context.Context, _ string) ([]*domain.Automation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.automations, nil
}

func (f *fakeAutomationStore) Create(_ context.Context, automation *domain.Automation) (*domain.Automation, error) {
	if f.err != nil {
		return nil, f.err
	}
	automation.ID = "a1"
	automation.CreatedAt = time.Now()
	f.automations = append(f.automations, automation)
	return automation, nil
}

type fakeRunLister struct {
	runs []*domain.AutomationRun
	err  error
}

func (f *fakeRunLister) List(_ context.Context, _ string, _ int) ([]*domain.AutomationRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.runs, nil
}

type handlerFixture struct {
	engine      *fakeEngine
	automations *fakeAutomationStore
	runs        *fakeRunLister
	mux         *http.ServeMux
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		engine:      &fakeEngine{summary: &service.RunSummary{UserID: "u1", Events: []service.EventOutcome{}}},
		automations: &fakeAutomationStore{},
		runs:        &fakeRunLister{},
	}

	h := &Handler{
		engine:         f.engine,
		automations:    f.automations,
		runs:           f.runs,
		authMiddleware: middleware.NewAuthMiddleware(testToken),
	}

	f.mux = http.NewServeMux()
	h.RegisterRoutes(f.mux)
	return f
}

func (f *handlerFixture) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var bodyReader *bytes.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader([]byte{})
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	return w
}

func TestRunAutomationUnauthorized(t *testing.T) {
	f := newHandlerFixture()

	w := f.request(t, "POST", "/api/v1/automation/run", "", dto.RunAutomationRequest{UserID: "u1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.request(t, "POST", "/api/v1/automation/run", "wrong-token", dto.RunAutomationRequest{UserID: "u1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRunAutomation(t *testing.T) {
	f := newHandlerFixture()
	f.engine.summary = &service.RunSummary{
		UserID:         "u1",
		ProcessedCount: 1,
		Events: []service.EventOutcome{{
			Event:    domain.Event{Kind: domain.EventPaymentReceived, EntityID: "i1", OccurredAt: time.Now()},
			Status:   service.OutcomeDispatched,
			Provider: "resend",
			RunID:    "r1",
		}},
	}

	w := f.request(t, "POST", "/api/v1/automation/run", testToken, dto.RunAutomationRequest{
		UserID:        "u1",
		LookbackHours: 48,
		SendMessages:  true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RunSummaryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, 1, resp.ProcessedCount)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "payment_received", resp.Events[0].Event.Type)
	assert.Equal(t, "dispatched", resp.Events[0].Status)
	assert.Equal(t, "resend", resp.Events[0].Provider)

	assert.Equal(t, 48, f.engine.params.LookbackHours)
	assert.True(t, f.engine.params.SendMessages)
}

func TestRunAutomationMissingUser(t *testing.T) {
	f := newHandlerFixture()

	w := f.request(t, "POST", "/api/v1/automation/run", testToken, dto.RunAutomationRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var errResp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
	assert.Equal(t, "VALIDATION_ERROR", errResp.Error.Code)
}

func TestRunAutomationUserNotFound(t *testing.T) {
	f := newHandlerFixture()
	f.engine.err = domain.ErrUserNotFound

	w := f.request(t, "POST", "/api/v1/automation/run", testToken, dto.RunAutomationRequest{UserEmail: "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var errResp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
	assert.Equal(t, "USER_NOT_FOUND", errResp.Error.Code)
}

func TestRunAutomationStoreUnavailable(t *testing.T) {
	f := newHandlerFixture()
	f.engine.err = domain.ErrStoreUnavailable

	w := f.request(t, "POST", "/api/v1/automation/run", testToken, dto.RunAutomationRequest{UserID: "u1"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestEventsPreview(t *testing.T) {
	f := newHandlerFixture()
	f.engine.summary = &service.RunSummary{
		UserID: "u1",
		Events: []service.EventOutcome{{
			Event:  domain.Event{Kind: domain.EventContractSigned, EntityID: "c1", Description: `Contract "Retainer" was signed`},
			Status: service.OutcomeDetected,
		}},
	}

	w := f.request(t, "GET", "/api/v1/automation/events?user_id=u1&lookback_hours=12", testToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.EventsPreviewResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "contract_signed", resp.Events[0].Type)

	assert.Equal(t, 12, f.engine.params.LookbackHours)
}

func TestEventsPreviewMissingUser(t *testing.T) {
	f := newHandlerFixture()

	w := f.request(t, "GET", "/api/v1/automation/events", testToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListRuns(t *testing.T) {
	f := newHandlerFixture()
	f.runs.runs = []*domain.AutomationRun{{
		ID:          "r1",
		UserID:      "u1",
		InsightType: "payment_received",
		Category:    "finance",
		Title:       "Payment received: invoice INV-42",
		DataPoints: domain.RunDataPoints{
			Event: domain.Event{Kind: domain.EventPaymentReceived, EntityID: "i1"},
		},
		Recommendations: []string{"Send a thank-you note to Acme Corp"},
		CreatedAt:       time.Now(),
	}}

	w := f.request(t, "GET", "/api/v1/automation/runs?user_id=u1", testToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RunsListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "payment_received", resp.Runs[0].InsightType)
	assert.Equal(t, "i1", resp.Runs[0].DataPoints.Event.EntityID)
}

func TestListRunsMissingUser(t *testing.T) {
	f := newHandlerFixture()

	w := f.request(t, "GET", "/api/v1/automation/runs", testToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateAutomation(t *testing.T) {
	f := newHandlerFixture()

	w := f.request(t, "POST", "/api/v1/automations", testToken, dto.CreateAutomationRequest{
		UserID:           "u1",
		Name:             "thank-you",
		TriggerType:      "payment_received",
		TriggerCondition: `context["client_name"] != ""`,
		Actions: []dto.AutomationAction{
			{Type: "create_task", Parameters: map[string]any{"title": "Thank {{client_name}}"}},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.AutomationResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "a1", resp.ID)
	assert.Equal(t, "payment_received", resp.TriggerType)
	assert.True(t, resp.IsActive)
}

func TestCreateAutomationInvalidTrigger(t *testing.T) {
	f := newHandlerFixture()

	w := f.request(t, "POST", "/api/v1/automations", testToken, dto.CreateAutomationRequest{
		UserID:      "u1",
		Name:        "bad",
		TriggerType: "invoice_exploded",
		Actions:     []dto.AutomationAction{{Type: "create_task"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var errResp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
	assert.Equal(t, "VALIDATION_ERROR", errResp.Error.Code)
	assert.Empty(t, f.automations.automations)
}

func TestCreateAutomationNoActions(t *testing.T) {
	f := newHandlerFixture()

	w := f.request(t, "POST", "/api/v1/automations", testToken, dto.CreateAutomationRequest{
		UserID:      "u1",
		Name:        "empty",
		TriggerType: "payment_received",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListAutomations(t *testing.T) {
	f := newHandlerFixture()
	f.automations.automations = []*domain.Automation{{
		ID:          "a1",
		UserID:      "u1",
		Name:        "thank-you",
		TriggerKind: domain.EventPaymentReceived,
		Actions:     []domain.Action{{Kind: domain.ActionCreateTask}},
		IsActive:    true,
	}}

	w := f.request(t, "GET", "/api/v1/automations?user_id=u1", testToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.AutomationsListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "thank-you", resp.Automations[0].Name)
}

func TestHealthzWithoutDatabase(t *testing.T) {
	f := newHandlerFixture()

	w := f.request(t, "GET", "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
