package domain

import "time"

// AuditKind enumerates recorded security events.
type AuditKind string

const (
	AuditImpersonationStarted    AuditKind = "impersonation_started"
	AuditImpersonationDenied     AuditKind = "impersonation_denied"
	AuditImpersonationTerminated AuditKind = "impersonation_terminated"
	AuditAccessDenied            AuditKind = "access_denied"
	AuditEscalationAttempt       AuditKind = "escalation_attempt"
)

// AuditEvent is an immutable record in the security audit trail.
type AuditEvent struct {
	ID          string
	Kind        AuditKind
	ActorID     string
	ActorEmail  string
	TargetID    string
	TargetEmail string
	Path        string
	Detail      string
	CreatedAt   time.Time
}
