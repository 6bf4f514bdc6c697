package rbac

import "strings"

// pathPolicy maps each role to the URL path prefixes it may reach. Access
// is explicit: higher roles do not inherit lower rows; super_admin alone
// carries every portal prefix.
var pathPolicy = map[Role][]string{
	RoleAgent:           {"/agent"},
	RoleCustomerService: {"/customer-service"},
	RoleManager:         {"/manager"},
	RoleAdmin:           {"/admin"},
	RoleSuperAdmin:      {"/super-admin", "/admin", "/manager", "/agent", "/customer-service"},
}

// AllowedPaths returns the union of path prefixes granted to every role in
// the set. Unrecognized roles contribute nothing.
func AllowedPaths(set RoleSet) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, role := range set.Roles() {
		for _, prefix := range pathPolicy[role] {
			if _, dup := seen[prefix]; dup {
				continue
			}
			seen[prefix] = struct{}{}
			out = append(out, prefix)
		}
	}
	return out
}

// IsAuthorized reports whether the requested path is covered by at least
// one prefix granted to the role set.
func IsAuthorized(path string, set RoleSet) bool {
	lowered := strings.ToLower(path)
	for _, prefix := range AllowedPaths(set) {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return false
}
