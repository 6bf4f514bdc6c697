package auth

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/spec-kit/agency-admin/internal/rbac"
)

// Cookie names consumed by the access layer.
const (
	CookieAuthToken     = "auth_token"
	CookieUserRole      = "user_role"
	CookieUserRoles     = "user_roles"
	CookieAssumedRole   = "assumed_role"
	CookieImpersonation = "impersonation_session"
)

// Cookie extracts a single cookie value from a raw Cookie header. Names
// match exactly on the `name=value` pair, so a cookie whose name is a
// substring of another never matches. Values are URL-decoded.
func Cookie(rawHeader, name string) (string, bool) {
	if rawHeader == "" || name == "" {
		return "", false
	}
	for _, pair := range strings.Split(rawHeader, ";") {
		pair = strings.TrimSpace(pair)
		eq := strings.IndexByte(pair, '=')
		if eq < 0 {
			continue
		}
		if pair[:eq] != name {
			continue
		}
		value := pair[eq+1:]
		if decoded, err := url.QueryUnescape(value); err == nil {
			return decoded, true
		}
		return value, true
	}
	return "", false
}

// Credential resolves the bearer credential for a request: the auth_token
// cookie first, then any recognized alternate cookie, then the
// Authorization header. A cookie always wins over the header so a stale
// header cannot override a cookie-based logout or refresh.
func Credential(rawCookieHeader, authorization string, alternates ...string) string {
	if token, ok := Cookie(rawCookieHeader, CookieAuthToken); ok && token != "" {
		return token
	}
	for _, name := range alternates {
		if token, ok := Cookie(rawCookieHeader, name); ok && token != "" {
			return token
		}
	}
	return bearerToken(authorization)
}

func bearerToken(authorization string) string {
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RoleHints carries the role assertions read from cookies, already
// normalized. Ambiguous encodings are resolved here and never leak past
// this boundary.
type RoleHints struct {
	Roles   []rbac.Role // from the multi-role cookie, highest precedence
	Role    rbac.Role   // from the single-role cookie
	Assumed rbac.Role   // from the assumed-role cookie
}

// ExtractRoleHints reads the role cookies from a raw Cookie header. The
// multi-role cookie accepts either a JSON string array or a comma list.
func ExtractRoleHints(rawCookieHeader string) RoleHints {
	var hints RoleHints

	if raw, ok := Cookie(rawCookieHeader, CookieUserRoles); ok {
		hints.Roles = parseRoleList(raw)
	}
	if raw, ok := Cookie(rawCookieHeader, CookieUserRole); ok {
		hints.Role = rbac.Normalize(raw)
	}
	if raw, ok := Cookie(rawCookieHeader, CookieAssumedRole); ok {
		hints.Assumed = rbac.Normalize(raw)
	}
	return hints
}

func parseRoleList(raw string) []rbac.Role {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parts []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &parts); err != nil {
			return nil
		}
	} else {
		parts = strings.Split(raw, ",")
	}

	roles := make([]rbac.Role, 0, len(parts))
	for _, part := range parts {
		if role := rbac.Normalize(part); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}
