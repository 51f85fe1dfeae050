package dto

import (
	"time"

	"github.com/clientpulse/clientpulse/internal/domain"
	"github.com/clientpulse/clientpulse/internal/service"
)

// EventInfo represents one detected event.
type EventInfo struct {
	Type        string    `json:"type"`
	EntityID    string    `json:"entity_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Description string    `json:"description"`
}

// EventOutcomeResponse represents the handling of one event in a batch.
type EventOutcomeResponse struct {
	Event    EventInfo `json:"event"`
	Status   string    `json:"status"`
	Provider string    `json:"provider,omitempty"`
	RunID    string    `json:"run_id,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// RunSummaryResponse represents the response for POST /automation/run.
type RunSummaryResponse struct {
	UserID         string                 `json:"user_id"`
	ProcessedCount int                    `json:"processed_count"`
	Events         []EventOutcomeResponse `json:"events"`
}

// EventsPreviewResponse represents the response for GET /automation/events.
type EventsPreviewResponse struct {
	UserID string      `json:"user_id"`
	Events []EventInfo `json:"events"`
	Total  int         `json:"total"`
}

// AutomationResponse represents one automation definition.
type AutomationResponse struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	Name             string             `json:"name"`
	TriggerType      string             `json:"trigger_type"`
	TriggerCondition string             `json:"trigger_condition,omitempty"`
	Actions          []AutomationAction `json:"actions"`
	CoolDownHours    int                `json:"cool_down_hours"`
	IsActive         bool               `json:"is_active"`
	CreatedAt        time.Time          `json:"created_at"`
}

// AutomationsListResponse represents the response for GET /automations.
type AutomationsListResponse struct {
	Automations []AutomationResponse `json:"automations"`
	Total       int                  `json:"total"`
}

// RunRecordResponse represents one persisted automation run.
type RunRecordResponse struct {
	ID                 string               `json:"id"`
	InsightType        string               `json:"insight_type"`
	Category           string               `json:"category"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	DataPoints         domain.RunDataPoints `json:"data_points"`
	ConfidenceScore    float64              `json:"confidence_score"`
	ImpactScore        float64              `json:"impact_score"`
	ActionabilityScore float64              `json:"actionability_score"`
	Recommendations    []string             `json:"recommendations"`
	CreatedAt          time.Time            `json:"created_at"`
}

// RunsListResponse represents the response for GET /automation/runs.
type RunsListResponse struct {
	Runs  []RunRecordResponse `json:"runs"`
	Total int                 `json:"total"`
}

// ToEventInfo converts domain.Event to EventInfo.
func ToEventInfo(event domain.Event) EventInfo {
	return EventInfo{
		Type:        string(event.Kind),
		EntityID:    event.EntityID,
		OccurredAt:  event.OccurredAt,
		Description: event.Description,
	}
}

// ToRunSummaryResponse converts service.RunSummary to RunSummaryResponse.
func ToRunSummaryResponse(summary *service.RunSummary) RunSummaryResponse {
	events := make([]EventOutcomeResponse, len(summary.Events))
	for i, outcome := range summary.Events {
		events[i] = EventOutcomeResponse{
			Event:    ToEventInfo(outcome.Event),
			Status:   string(outcome.Status),
			Provider: outcome.Provider,
			RunID:    outcome.RunID,
			Error:    outcome.Error,
		}
	}

	return RunSummaryResponse{
		UserID:         summary.UserID,
		ProcessedCount: summary.ProcessedCount,
		Events:         events,
	}
}

// ToEventsPreviewResponse converts a preview summary to EventsPreviewResponse.
func ToEventsPreviewResponse(summary *service.RunSummary) EventsPreviewResponse {
	events := make([]EventInfo, len(summary.Events))
	for i, outcome := range summary.Events {
		events[i] = ToEventInfo(outcome.Event)
	}

	return EventsPreviewResponse{
		UserID: summary.UserID,
		Events: events,
		Total:  len(events),
	}
}

// ToAutomationResponse converts domain.Automation to AutomationResponse.
func ToAutomationResponse(automation *domain.Automation) AutomationResponse {
	actions := make([]AutomationAction, len(automation.Actions))
	for i, action := range automation.Actions {
		actions[i] = AutomationAction{
			Type:       string(action.Kind),
			Parameters: action.Parameters,
		}
	}

	return AutomationResponse{
		ID:               automation.ID,
		UserID:           automation.UserID,
		Name:             automation.Name,
		TriggerType:      string(automation.TriggerKind),
		TriggerCondition: automation.TriggerCondition,
		Actions:          actions,
		CoolDownHours:    automation.CoolDownHours,
		IsActive:         automation.IsActive,
		CreatedAt:        automation.CreatedAt,
	}
}

// ToRunRecordResponse converts domain.AutomationRun to RunRecordResponse.
func ToRunRecordResponse(run *domain.AutomationRun) RunRecordResponse {
	return RunRecordResponse{
		ID:                 run.ID,
		InsightType:        run.InsightType,
		Category:           run.Category,
		Title:              run.Title,
		Description:        run.Description,
		DataPoints:         run.DataPoints,
		ConfidenceScore:    run.ConfidenceScore,
		ImpactScore:        run.ImpactScore,
		ActionabilityScore: run.ActionabilityScore,
		Recommendations:    run.Recommendations,
		CreatedAt:          run.CreatedAt,
	}
}
