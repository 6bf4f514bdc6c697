package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/agency-admin/internal/rbac"
)

func TestIsAuthorizedAdminPrefix(t *testing.T) {
	admin := rbac.NewRoleSet(rbac.RoleAdmin)
	assert.True(t, rbac.IsAuthorized("/admin/agencies", admin))
	assert.True(t, rbac.IsAuthorized("/admin", admin))
	assert.False(t, rbac.IsAuthorized("/super-admin", admin))
	assert.False(t, rbac.IsAuthorized("/manager", admin))
}

func TestIsAuthorizedSuperAdminEverywhere(t *testing.T) {
	super := rbac.NewRoleSet(rbac.RoleSuperAdmin)
	for _, path := range []string{"/super-admin", "/admin/x", "/manager", "/agent/dash", "/customer-service"} {
		assert.True(t, rbac.IsAuthorized(path, super), path)
	}
}

func TestIsAuthorizedCaseInsensitivePath(t *testing.T) {
	assert.True(t, rbac.IsAuthorized("/Admin/Agencies", rbac.NewRoleSet(rbac.RoleAdmin)))
}

func TestIsAuthorizedUnrecognizedRoleHasNoPaths(t *testing.T) {
	set := rbac.NewRoleSet(rbac.Role("auditor"))
	assert.False(t, rbac.IsAuthorized("/admin", set))
	assert.False(t, rbac.IsAuthorized("/agent", set))
	assert.Empty(t, rbac.AllowedPaths(set))
}

func TestAllowedPathsUnion(t *testing.T) {
	set := rbac.NewRoleSet(rbac.RoleAgent, rbac.RoleManager)
	paths := rbac.AllowedPaths(set)
	assert.ElementsMatch(t, []string{"/agent", "/manager"}, paths)
}

func TestAllowedPathsDeduplicated(t *testing.T) {
	set := rbac.NewRoleSet(rbac.RoleAdmin, rbac.RoleSuperAdmin)
	paths := rbac.AllowedPaths(set)
	counts := map[string]int{}
	for _, p := range paths {
		counts[p]++
	}
	assert.Equal(t, 1, counts["/admin"])
}
