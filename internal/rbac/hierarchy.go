package rbac

// RoleSet is the set of roles a principal asserts on a request.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from normalized roles, dropping empty members.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		set[r] = struct{}{}
	}
	return set
}

// Contains reports set membership.
func (s RoleSet) Contains(role Role) bool {
	_, ok := s[role]
	return ok
}

// Roles returns the members in privilege order, unrecognized roles last.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s))
	for _, r := range ordering {
		if s.Contains(r) {
			out = append(out, r)
		}
	}
	for r := range s {
		if rank(r) < 0 {
			out = append(out, r)
		}
	}
	return out
}

// HighestRole returns the most privileged member of the set. Unrecognized
// roles rank below every recognized role; when the set holds nothing else,
// one of them is returned verbatim so downstream policy lookups (which
// grant such roles no paths) still see a value.
func HighestRole(set RoleSet) Role {
	best := Role("")
	bestRank := -2
	for role := range set {
		if r := rank(role); r > bestRank {
			best = role
			bestRank = r
		}
	}
	if best == "" {
		return DefaultRole
	}
	return best
}

// CanAssume reports whether a principal whose actual highest role is
// actual may act under the requested role. Assumption is only permitted
// strictly downward within the recognized ordering, which blocks privilege
// escalation through a forged assumed-role cookie.
func CanAssume(actual, requested Role) bool {
	reqRank := rank(requested)
	if reqRank < 0 {
		return false
	}
	return rank(actual) > reqRank
}
