package events

import "time"

// EventType enumerates supported security event identifiers.
type EventType string

const (
	EventImpersonationStarted    EventType = "impersonation_started"
	EventImpersonationDenied     EventType = "impersonation_denied"
	EventImpersonationTerminated EventType = "impersonation_terminated"
	EventAccessDenied            EventType = "access_denied"
	EventEscalationAttempt       EventType = "escalation_attempt"
)

// Event represents a security event emitted by the access layer.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	ActorID     string    `json:"actor_id,omitempty"`
	ActorEmail  string    `json:"actor_email,omitempty"`
	TargetID    string    `json:"target_id,omitempty"`
	TargetEmail string    `json:"target_email,omitempty"`
	Path        string    `json:"path,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
