package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/cursomc/commerce-api/internal/core/domain"
	"github.com/cursomc/commerce-api/internal/core/principal"
)

// RBAC lets the request through when the principal holds any of the allowed
// roles. Rejections are returned as authorization errors so the central error
// handler logs and counts them.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := principal.Current(c.Request().Context())
			if p == nil {
				return domain.ErrUnauthenticated
			}
			for _, r := range p.Roles() {
				if _, ok := allowed[r]; ok {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
