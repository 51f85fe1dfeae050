package domain

import "time"

// DeliveryResult is the outcome of one delivery channel attempt. It is
// never persisted standalone; it is folded into the run's data points.
type DeliveryResult struct {
	Success   bool   `json:"success"`
	Provider  string `json:"provider"`
	ID        string `json:"id,omitempty"`
	Error     string `json:"error,omitempty"`
	Simulated bool   `json:"simulated,omitempty"`
}

// RunDataPoints is the JSON payload embedded in an automation run. The
// originating event (including its entity id) lives here so later scans
// can detect "already handled".
type RunDataPoints struct {
	Event    Event           `json:"event"`
	Delivery *DeliveryResult `json:"delivery,omitempty"`
	Actions  []ActionResult  `json:"actions,omitempty"`
	Errors   []string        `json:"errors,omitempty"`
}

// AutomationRun is the durable audit record of one detect-render-dispatch
// attempt. Immutable once written; this subsystem never updates or
// deletes runs.
type AutomationRun struct {
	ID                 string
	UserID             string
	InsightType        string
	Category           string
	Title              string
	Description        string
	DataPoints         RunDataPoints
	ConfidenceScore    float64
	ImpactScore        float64
	ActionabilityScore float64
	Recommendations    []string
	CreatedAt          time.Time
}
