package domain

import "time"

// AgencyStatus represents lifecycle states for a tenant agency.
type AgencyStatus string

const (
	AgencyStatusActive    AgencyStatus = "ACTIVE"
	AgencyStatusSuspended AgencyStatus = "SUSPENDED"
)

// Agency models a tenant insurance agency.
type Agency struct {
	ID        string
	Name      string
	Slug      string
	Status    AgencyStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
