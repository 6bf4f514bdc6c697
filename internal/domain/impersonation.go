package domain

import (
	"time"

	"github.com/spec-kit/agency-admin/internal/rbac"
)

// ImpersonationGrant records a super-admin acting-as session.
type ImpersonationGrant struct {
	ID            string
	ActorID       string
	ActorEmail    string
	TargetID      string
	TargetEmail   string
	TargetRole    rbac.Role
	Justification string
	StartedAt     time.Time
	ExpiresAt     time.Time
	TerminatedAt  *time.Time
	SourceIP      string
	UserAgent     string
}

// Active reports whether the grant is usable at the given instant. A grant
// becomes inert at ExpiresAt or when explicitly terminated, whichever
// comes first.
func (g *ImpersonationGrant) Active(now time.Time) bool {
	if g == nil || g.TerminatedAt != nil {
		return false
	}
	return now.Before(g.ExpiresAt)
}
