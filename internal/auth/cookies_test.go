package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/agency-admin/internal/auth"
	"github.com/spec-kit/agency-admin/internal/rbac"
)

func TestCookieExactNameMatch(t *testing.T) {
	header := "xauth_token=wrong; auth_token=right; auth_token_extra=alsowrong"
	value, ok := auth.Cookie(header, "auth_token")
	assert.True(t, ok)
	assert.Equal(t, "right", value)
}

func TestCookieURLDecoded(t *testing.T) {
	value, ok := auth.Cookie("user_roles=%5B%22admin%22%5D", "user_roles")
	assert.True(t, ok)
	assert.Equal(t, `["admin"]`, value)
}

func TestCookieAbsent(t *testing.T) {
	_, ok := auth.Cookie("other=value", "auth_token")
	assert.False(t, ok)

	_, ok = auth.Cookie("", "auth_token")
	assert.False(t, ok)
}

func TestCredentialCookieOverHeader(t *testing.T) {
	cred := auth.Credential("auth_token=cookie-token", "Bearer header-token")
	assert.Equal(t, "cookie-token", cred)
}

func TestCredentialHeaderFallback(t *testing.T) {
	cred := auth.Credential("other=v", "Bearer header-token")
	assert.Equal(t, "header-token", cred)

	assert.Equal(t, "", auth.Credential("", "Basic abc"))
	assert.Equal(t, "", auth.Credential("", ""))
}

func TestCredentialAlternateCookie(t *testing.T) {
	cred := auth.Credential("sb-access-token=delegated", "Bearer header-token", "sb-access-token")
	assert.Equal(t, "delegated", cred)
}

func TestExtractRoleHintsJSONArray(t *testing.T) {
	hints := auth.ExtractRoleHints(`user_roles=%5B%22Admin%22%2C%22Super-Admin%22%5D`)
	assert.Equal(t, []rbac.Role{rbac.RoleAdmin, rbac.RoleSuperAdmin}, hints.Roles)
}

func TestExtractRoleHintsCommaList(t *testing.T) {
	hints := auth.ExtractRoleHints("user_roles=agent%2Cmanager")
	assert.Equal(t, []rbac.Role{rbac.RoleAgent, rbac.RoleManager}, hints.Roles)
}

func TestExtractRoleHintsSingleAndAssumed(t *testing.T) {
	hints := auth.ExtractRoleHints("user_role=Super%20Admin; assumed_role=manager")
	assert.Equal(t, rbac.RoleSuperAdmin, hints.Role)
	assert.Equal(t, rbac.RoleManager, hints.Assumed)
	assert.Empty(t, hints.Roles)
}

func TestExtractRoleHintsMalformedJSON(t *testing.T) {
	hints := auth.ExtractRoleHints(`user_roles=%5Bnot-json`)
	assert.Empty(t, hints.Roles)
}
