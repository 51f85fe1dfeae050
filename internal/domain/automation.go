package domain

import "time"

// ActionKind identifies the kind of work an automation action performs.
type ActionKind string

const (
	ActionSendEmail           ActionKind = "send_email"
	ActionCreateTask          ActionKind = "create_task"
	ActionCreateInvoice       ActionKind = "create_invoice"
	ActionUpdateProjectStatus ActionKind = "update_project_status"
	ActionScheduleMeeting     ActionKind = "schedule_meeting"
	ActionCreateProposal      ActionKind = "create_proposal"
)

// IsValid checks if the kind is one of the known action kinds.
func (k ActionKind) IsValid() bool {
	switch k {
	case ActionSendEmail, ActionCreateTask, ActionCreateInvoice,
		ActionUpdateProjectStatus, ActionScheduleMeeting, ActionCreateProposal:
		return true
	default:
		return false
	}
}

// Action is a declarative unit of work executed when an automation
// matches an event. Parameters are validated by the handler for the
// specific kind, not here.
type Action struct {
	Kind       ActionKind     `json:"type" yaml:"type"`
	Parameters map[string]any `json:"parameters" yaml:"parameters"`
}

// Automation is a stored automation definition: which event kind it
// reacts to, an optional CEL condition over the event and its context,
// and the actions to execute on a match.
type Automation struct {
	ID               string    `json:"id" yaml:"-"`
	UserID           string    `json:"user_id" yaml:"-"`
	Name             string    `json:"name" yaml:"name"`
	TriggerKind      EventKind `json:"trigger_type" yaml:"trigger_type"`
	TriggerCondition string    `json:"trigger_condition" yaml:"trigger_condition"`
	Actions          []Action  `json:"actions" yaml:"actions"`
	CoolDownHours    int       `json:"cool_down_hours" yaml:"cool_down_hours"`
	IsActive         bool      `json:"is_active" yaml:"is_active"`
	CreatedAt        time.Time `json:"created_at" yaml:"-"`
}

// ActionResult is the uniform outcome of one executed action.
type ActionResult struct {
	Kind    ActionKind     `json:"type"`
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}
