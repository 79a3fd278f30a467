package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event type names for the state changes services publish.
const (
	TypePlanGenerated       = "plan.generated"
	TypePlanDeleted         = "plan.deleted"
	TypeAssignmentCompleted = "assignment.completed"
	TypeStatusRecorded      = "status.recorded"
	TypeCorpusImported      = "corpus.imported"
)

// Event is a record of a completed state change.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type names the state change, e.g. plan.generated
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		Payload:    payloadBytes,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// PlanGeneratedPayload describes a newly generated schedule plan.
type PlanGeneratedPayload struct {
	PlanID    uuid.UUID `json:"plan_id"`
	TenantID  string    `json:"tenant_id"`
	TotalDays int       `json:"total_days"`
}

// PlanDeletedPayload describes a deleted schedule plan.
type PlanDeletedPayload struct {
	PlanID uuid.UUID `json:"plan_id"`
}

// AssignmentCompletedPayload describes an assignment completion toggle.
type AssignmentCompletedPayload struct {
	PlanID    uuid.UUID `json:"plan_id"`
	Date      string    `json:"date"`
	Index     int       `json:"index"`
	Completed bool      `json:"completed"`
}

// StatusRecordedPayload describes one or more recorded page grades.
type StatusRecordedPayload struct {
	TenantID string `json:"tenant_id"`
	Count    int    `json:"count"`
}

// CorpusImportedPayload describes a corpus import.
type CorpusImportedPayload struct {
	ChapterCount int `json:"chapter_count"`
}

// Handler defines an interface for components that can handle events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// Emitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of
// handlers.
type Emitter interface {
	// Emit publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	Emit(ctx context.Context, event *Event) error
}
