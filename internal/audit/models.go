package audit

import "time"

// Actions recorded on the intake audit trail.
const (
	ActionClientCreated     = "client.created"
	ActionSectionUpdated    = "client.section_updated"
	ActionBulkUpdated       = "client.bulk_updated"
	ActionClientCompleted   = "client.completed"
	ActionClientDeactivated = "client.deactivated"
	ActionClientReactivated = "client.reactivated"
)

// Event is emitted from domain logic to capture key intake actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp    time.Time `json:"timestamp"`
	ClientID     string    `json:"clientId"`
	ClientNumber string    `json:"clientNumber,omitempty"`
	Action       string    `json:"action"`
	Section      string    `json:"section,omitempty"`
	Sections     []string  `json:"sections,omitempty"`
	RequestID    string    `json:"requestId,omitempty"`
}
