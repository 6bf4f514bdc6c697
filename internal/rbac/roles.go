package rbac

import "strings"

// Role identifies a backoffice privilege level.
type Role string

const (
	RoleAgent           Role = "agent"
	RoleCustomerService Role = "customer_service"
	RoleManager         Role = "manager"
	RoleAdmin           Role = "admin"
	RoleSuperAdmin      Role = "super_admin"
)

// DefaultRole is assumed when a principal carries no role claim at all.
const DefaultRole = RoleAgent

// ordering ranks roles from least to most privileged.
var ordering = []Role{RoleAgent, RoleCustomerService, RoleManager, RoleAdmin, RoleSuperAdmin}

var canonical = map[string]Role{
	"super-admin":      RoleSuperAdmin,
	"super admin":      RoleSuperAdmin,
	"superadmin":       RoleSuperAdmin,
	"customer-service": RoleCustomerService,
	"customer service": RoleCustomerService,
	"customerservice":  RoleCustomerService,
}

// Normalize canonicalizes an arbitrary role string. Unrecognized values
// pass through lower-cased and trimmed; empty input stays empty (callers
// substitute DefaultRole when seeding a role set).
func Normalize(role string) Role {
	lowered := strings.ToLower(strings.TrimSpace(role))
	if mapped, ok := canonical[lowered]; ok {
		return mapped
	}
	return Role(lowered)
}

// Recognized reports whether the role belongs to the closed ordered set.
func Recognized(role Role) bool {
	return rank(role) >= 0
}

// Display returns the hyphenated form used in URLs.
func Display(role Role) string {
	switch role {
	case RoleSuperAdmin:
		return "super-admin"
	case RoleCustomerService:
		return "customer-service"
	default:
		return string(role)
	}
}

// PortalPath returns the landing path for a role. Unrecognized roles land
// on the agent portal.
func PortalPath(role Role) string {
	switch role {
	case RoleSuperAdmin:
		return "/super-admin"
	case RoleAdmin:
		return "/admin"
	case RoleManager:
		return "/manager"
	case RoleCustomerService:
		return "/customer-service"
	default:
		return "/agent"
	}
}

func rank(role Role) int {
	for i, r := range ordering {
		if r == role {
			return i
		}
	}
	return -1
}
