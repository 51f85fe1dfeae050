package domain

import "time"

// EventKind identifies the business-state transition an event represents.
type EventKind string

const (
	EventContractSigned   EventKind = "contract_signed"
	EventPaymentReceived  EventKind = "payment_received"
	EventProjectCompleted EventKind = "project_completed"
	EventClientCreated    EventKind = "client_created"
	EventMeetingUpcoming  EventKind = "meeting_upcoming"
)

// DetectionOrder is the fixed priority order in which the detector
// concatenates event kinds. Events are not globally time-sorted.
var DetectionOrder = []EventKind{
	EventContractSigned,
	EventPaymentReceived,
	EventProjectCompleted,
	EventClientCreated,
	EventMeetingUpcoming,
}

// IsValid checks if the kind is one of the known event kinds.
func (k EventKind) IsValid() bool {
	switch k {
	case EventContractSigned, EventPaymentReceived, EventProjectCompleted,
		EventClientCreated, EventMeetingUpcoming:
		return true
	default:
		return false
	}
}

// InsightType maps the event kind to the insight type recorded on
// automation runs. The mapping is 1:1; dedup relies on it.
func (k EventKind) InsightType() string {
	return string(k)
}

// Category groups events for the audit surface.
func (k EventKind) Category() string {
	switch k {
	case EventContractSigned:
		return "sales"
	case EventPaymentReceived:
		return "finance"
	case EventProjectCompleted:
		return "delivery"
	case EventClientCreated:
		return "growth"
	case EventMeetingUpcoming:
		return "schedule"
	default:
		return "general"
	}
}

// Event is the normalized representation of a detected state transition.
// Events are transient: consumed immediately after detection or discarded,
// never persisted directly. The copy embedded in a run's data points is
// what later scans use to detect "already handled".
type Event struct {
	Kind        EventKind `json:"kind"`
	EntityID    string    `json:"entity_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Description string    `json:"description"`
}
