// Package policy decides whether a principal may act on customer data. Every
// function is a pure function of its arguments; a nil principal is anonymous.
package policy

import (
	"github.com/cursomc/commerce-api/internal/core/domain"
)

// Decision is the outcome of a policy check.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

func (d Decision) Allowed() bool { return d == Allow }

// Err returns nil for Allow and the matching authorization error otherwise.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return domain.ErrUnauthenticated
	default:
		return domain.ErrForbidden
	}
}

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	default:
		return "deny_forbidden"
	}
}

// CanAccessCustomer allows admins and the customer whose id is targetID.
func CanAccessCustomer(p *domain.Principal, targetID int64) Decision {
	if p == nil {
		return DenyUnauthenticated
	}
	if p.HasRole(domain.RoleAdmin) || p.ID == targetID {
		return Allow
	}
	return DenyForbidden
}

// CanAccessCustomerByEmail allows admins and the principal whose username is
// targetEmail. Identity is not consulted on this path.
func CanAccessCustomerByEmail(p *domain.Principal, targetEmail string) Decision {
	if p == nil {
		return DenyUnauthenticated
	}
	if p.HasRole(domain.RoleAdmin) || p.Username == targetEmail {
		return Allow
	}
	return DenyForbidden
}

// CanUpload allows any authenticated principal; uploads always target the
// principal's own picture.
func CanUpload(p *domain.Principal) Decision {
	if p == nil {
		return DenyUnauthenticated
	}
	return Allow
}

// RequireAdmin guards administrative operations (delete, list, page).
func RequireAdmin(p *domain.Principal) Decision {
	if p == nil {
		return DenyUnauthenticated
	}
	if p.HasRole(domain.RoleAdmin) {
		return Allow
	}
	return DenyForbidden
}
