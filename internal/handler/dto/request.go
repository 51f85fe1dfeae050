package dto

// RunAutomationRequest represents the request body for POST /automation/run.
// Exactly one of user_id or user_email identifies the account.
type RunAutomationRequest struct {
	UserID        string `json:"user_id,omitempty"`
	UserEmail     string `json:"user_email,omitempty"`
	LookbackHours int    `json:"lookback_hours,omitempty"`
	SendMessages  bool   `json:"send_messages,omitempty"`
}

// EventsPreviewFilters represents query parameters for GET /automation/events.
type EventsPreviewFilters struct {
	UserID        string `schema:"user_id"`
	UserEmail     string `schema:"user_email"`
	LookbackHours int    `schema:"lookback_hours"`
}

// ListRunsFilters represents query parameters for GET /automation/runs.
type ListRunsFilters struct {
	UserID string `schema:"user_id"`
	Limit  int    `schema:"limit"`
}

// ListAutomationsFilters represents query parameters for GET /automations.
type ListAutomationsFilters struct {
	UserID string `schema:"user_id"`
}

// AutomationAction represents one action inside an automation definition.
type AutomationAction struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// CreateAutomationRequest represents the request body for POST /automations.
type CreateAutomationRequest struct {
	UserID           string             `json:"user_id"`
	Name             string             `json:"name"`
	TriggerType      string             `json:"trigger_type"`
	TriggerCondition string             `json:"trigger_condition,omitempty"`
	Actions          []AutomationAction `json:"actions"`
	CoolDownHours    int                `json:"cool_down_hours,omitempty"`
	IsActive         *bool              `json:"is_active,omitempty"`
}
