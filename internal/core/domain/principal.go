package domain

import "strings"

// Role is an authorization tag carried by a principal. Roles do not imply one another.
type Role string

const (
	RoleRegular Role = "REGULAR"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole maps a stored or token role tag to a Role. The legacy "CLIENTE"
// profile is read as RoleRegular.
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(s, "ROLE_"))) {
	case "ADMIN":
		return RoleAdmin, true
	case "REGULAR", "CLIENTE", "CLIENT":
		return RoleRegular, true
	}
	return "", false
}

// Principal models the authenticated caller of one request.
type Principal struct {
	ID       int64
	Username string
	roles    []Role
}

// NewPrincipal builds a Principal owning its own copy of roles.
func NewPrincipal(id int64, username string, roles ...Role) Principal {
	cp := make([]Role, len(roles))
	copy(cp, roles)
	return Principal{ID: id, Username: username, roles: cp}
}

// HasRole reports whether r is one of the principal's roles.
func (p Principal) HasRole(r Role) bool {
	for _, have := range p.roles {
		if have == r {
			return true
		}
	}
	return false
}

// Roles returns a copy of the principal's roles.
func (p Principal) Roles() []Role {
	cp := make([]Role, len(p.roles))
	copy(cp, p.roles)
	return cp
}
