package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/agency-admin/internal/rbac"
)

var orderedRoles = []rbac.Role{
	rbac.RoleAgent,
	rbac.RoleCustomerService,
	rbac.RoleManager,
	rbac.RoleAdmin,
	rbac.RoleSuperAdmin,
}

func TestHighestRoleMonotonic(t *testing.T) {
	for i, lower := range orderedRoles {
		for _, higher := range orderedRoles[i+1:] {
			set := rbac.NewRoleSet(lower, higher)
			assert.Equal(t, higher, rbac.HighestRole(set), "%s vs %s", lower, higher)
		}
	}
}

func TestHighestRoleSingle(t *testing.T) {
	for _, role := range orderedRoles {
		assert.Equal(t, role, rbac.HighestRole(rbac.NewRoleSet(role)))
	}
}

func TestHighestRoleUnrecognizedOnly(t *testing.T) {
	// A lone unrecognized role is returned verbatim rather than crashing.
	assert.Equal(t, rbac.Role("auditor"), rbac.HighestRole(rbac.NewRoleSet(rbac.Role("auditor"))))
}

func TestHighestRoleUnrecognizedIgnoredBesideRecognized(t *testing.T) {
	set := rbac.NewRoleSet(rbac.Role("auditor"), rbac.RoleAgent)
	assert.Equal(t, rbac.RoleAgent, rbac.HighestRole(set))
}

func TestCanAssumeNeverSelfOrUpward(t *testing.T) {
	for i, role := range orderedRoles {
		assert.False(t, rbac.CanAssume(role, role), "self assumption %s", role)
		for _, atOrAbove := range orderedRoles[i:] {
			assert.False(t, rbac.CanAssume(role, atOrAbove), "%s assuming %s", role, atOrAbove)
		}
	}
}

func TestCanAssumeStrictlyDownward(t *testing.T) {
	for i, higher := range orderedRoles {
		for _, lower := range orderedRoles[:i] {
			assert.True(t, rbac.CanAssume(higher, lower), "%s assuming %s", higher, lower)
		}
	}
}

func TestCanAssumeUnrecognizedRequested(t *testing.T) {
	assert.False(t, rbac.CanAssume(rbac.RoleSuperAdmin, rbac.Role("auditor")))
	assert.False(t, rbac.CanAssume(rbac.RoleSuperAdmin, rbac.Role("")))
}
