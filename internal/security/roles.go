package security

// Role is a closed set of account roles. The hierarchy is a partial order:
// a higher role satisfies checks for every role beneath it.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var roleRank = map[Role]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// ParseRole safely parses a stored role string into a Role.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Satisfies reports whether r meets a requirement for the given role,
// taking the hierarchy into account (ADMIN satisfies USER requirements).
func (r Role) Satisfies(required Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	requiredRank, ok := roleRank[required]
	if !ok {
		return false
	}
	return rank >= requiredRank
}

// AllRoles returns the predefined roles in hierarchical order.
func AllRoles() []Role {
	return []Role{RoleUser, RoleAdmin}
}

// Principal is the authenticated identity attached to a request after
// successful token verification. Immutable for the lifetime of the request.
type Principal struct {
	Subject string
	UserID  uint64
	Role    Role
}
