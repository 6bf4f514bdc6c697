package domain

import (
	"time"

	"github.com/spec-kit/agency-admin/internal/rbac"
)

// Principal is the domain model for a provisioned backoffice account.
type Principal struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         rbac.Role
	AgencyID     *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
