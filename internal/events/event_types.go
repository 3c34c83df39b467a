package events

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintDeleted       EventType = "complaint_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	ReferenceKey string                   `json:"reference_key"`
	Category     domain.ComplaintCategory `json:"category"`
	Department   domain.Department        `json:"department"`
	Priority     domain.ComplaintPriority `json:"priority"`
	Title        string                   `json:"title"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus     domain.ComplaintStatus `json:"old_status"`
	NewStatus     domain.ComplaintStatus `json:"new_status"`
	AdminResponse *string                `json:"admin_response,omitempty"`
}

// ComplaintDeletedPayload payload.
type ComplaintDeletedPayload struct {
	ReferenceKey string                 `json:"reference_key"`
	Status       domain.ComplaintStatus `json:"status"`
}
