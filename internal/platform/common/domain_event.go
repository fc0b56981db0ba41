package common

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface that all domain events must implement.
//
// Domain events represent something that happened in the domain. They are
// immutable facts persisted alongside the aggregate for audit purposes.
type DomainEvent interface {
	// EventID returns the unique identifier for this event.
	EventID() string

	// EventType returns the type code for this event.
	// Format: {domain}:{aggregate}:{action}
	// Example: "tracker:role:created"
	EventType() string

	// SpecVersion returns the schema version of this event type.
	SpecVersion() string

	// Source returns the system that generated this event.
	Source() string

	// Subject returns the qualified aggregate identifier.
	// Format: {domain}.{aggregate}.{id}
	// Example: "tracker.issue.8f14e45f"
	Subject() string

	// Time returns when the event occurred.
	Time() time.Time

	// CorrelationID returns the distributed tracing identifier.
	CorrelationID() string

	// CausationID returns the ID of the event that caused this event.
	// May be empty if this is a root event.
	CausationID() string

	// ExecutionID groups all events from one use case execution.
	ExecutionID() string

	// PrincipalID returns the ID of who initiated the action.
	PrincipalID() string

	// ToDataJSON serializes the event-specific payload to JSON.
	ToDataJSON() string
}

// BaseDomainEvent provides a base implementation of DomainEvent
// that can be embedded in concrete event types.
type BaseDomainEvent struct {
	ID          string    `json:"eventId" bson:"_id"`
	Type        string    `json:"eventType" bson:"type"`
	Version     string    `json:"specVersion" bson:"specVersion"`
	Src         string    `json:"source" bson:"source"`
	Subj        string    `json:"subject" bson:"subject"`
	Timestamp   time.Time `json:"time" bson:"time"`
	Correlation string    `json:"correlationId" bson:"correlationId"`
	Causation   string    `json:"causationId,omitempty" bson:"causationId,omitempty"`
	Execution   string    `json:"executionId" bson:"executionId"`
	Principal   string    `json:"principalId" bson:"principalId"`
}

// NewBaseDomainEvent creates a new BaseDomainEvent with fields populated
// from the execution context.
func NewBaseDomainEvent(ctx *ExecutionContext, eventType, subject string) BaseDomainEvent {
	return BaseDomainEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Version:     "1.0",
		Src:         "tracker:core",
		Subj:        subject,
		Timestamp:   time.Now(),
		Correlation: ctx.CorrelationID,
		Causation:   ctx.CausationID,
		Execution:   ctx.ExecutionID,
		Principal:   ctx.PrincipalID,
	}
}

// DomainEvent interface implementation for BaseDomainEvent

func (e BaseDomainEvent) EventID() string       { return e.ID }
func (e BaseDomainEvent) EventType() string     { return e.Type }
func (e BaseDomainEvent) SpecVersion() string   { return e.Version }
func (e BaseDomainEvent) Source() string        { return e.Src }
func (e BaseDomainEvent) Subject() string       { return e.Subj }
func (e BaseDomainEvent) Time() time.Time       { return e.Timestamp }
func (e BaseDomainEvent) CorrelationID() string { return e.Correlation }
func (e BaseDomainEvent) CausationID() string   { return e.Causation }
func (e BaseDomainEvent) ExecutionID() string   { return e.Execution }
func (e BaseDomainEvent) PrincipalID() string   { return e.Principal }

// ToDataJSON returns an empty object for the base event.
// Concrete event types should override this to include their payload.
func (e BaseDomainEvent) ToDataJSON() string {
	return "{}"
}

// PersistedEvent represents a domain event as stored in MongoDB.
type PersistedEvent struct {
	ID            string    `bson:"_id" json:"id"`
	SpecVersion   string    `bson:"specVersion" json:"specVersion"`
	Type          string    `bson:"type" json:"type"`
	Source        string    `bson:"source" json:"source"`
	Subject       string    `bson:"subject" json:"subject"`
	Time          time.Time `bson:"time" json:"time"`
	Data          string    `bson:"data" json:"data"`
	CorrelationID string    `bson:"correlationId" json:"correlationId"`
	CausationID   string    `bson:"causationId,omitempty" json:"causationId,omitempty"`
	ExecutionID   string    `bson:"executionId" json:"executionId"`
	PrincipalID   string    `bson:"principalId" json:"principalId"`
}

// ToPersistedEvent converts a DomainEvent to a PersistedEvent for storage.
func ToPersistedEvent(event DomainEvent) *PersistedEvent {
	return &PersistedEvent{
		ID:            event.EventID(),
		SpecVersion:   event.SpecVersion(),
		Type:          event.EventType(),
		Source:        event.Source(),
		Subject:       event.Subject(),
		Time:          event.Time(),
		Data:          event.ToDataJSON(),
		CorrelationID: event.CorrelationID(),
		CausationID:   event.CausationID(),
		ExecutionID:   event.ExecutionID(),
		PrincipalID:   event.PrincipalID(),
	}
}

// MarshalDataJSON is a helper to serialize event payload to JSON.
func MarshalDataJSON(data any) string {
	bytes, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(bytes)
}
