package dto

import "time"

// StartImpersonationRequest payload for starting an acting-as session.
type StartImpersonationRequest struct {
	TargetID      string `json:"target_id"`
	Justification string `json:"justification"`
}

// ImpersonationTarget carries the impersonated principal's public identity.
type ImpersonationTarget struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ImpersonationResponse describes a created grant.
type ImpersonationResponse struct {
	GrantID   string              `json:"grant_id"`
	Target    ImpersonationTarget `json:"target"`
	ExpiresAt time.Time           `json:"expires_at"`
}
