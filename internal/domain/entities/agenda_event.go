package entities

import "time"

// AgendaEventType identifies the kind of agenda change being broadcast.
type AgendaEventType string

const (
	// AgendaEventFieldUpdated is emitted after a confirmed per-field save.
	AgendaEventFieldUpdated AgendaEventType = "agenda.field_updated"

	// AgendaEventCascadeFailed is emitted when an automatic consistency-repair
	// save failed after the primary save persisted.
	AgendaEventCascadeFailed AgendaEventType = "agenda.cascade_failed"

	// AgendaEventCreated is emitted after a new agenda is created.
	AgendaEventCreated AgendaEventType = "agenda.created"
)

// AgendaEvent is broadcast on the event bus so other console sessions and the
// public viewer can refresh without polling.
type AgendaEvent struct {
	ID         string          `json:"id"`
	Type       AgendaEventType `json:"type"`
	AgendaID   string          `json:"agenda_id"`
	DoctorID   string          `json:"doctor_id,omitempty"`
	Field      string          `json:"field,omitempty"`
	Value      any             `json:"value,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
