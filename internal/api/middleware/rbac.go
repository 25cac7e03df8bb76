package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sitterhub/marketplace/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if _, ok := allowed[identity.Role]; !ok {
				return domain.ErrRoleNotPermitted
			}
			return next(c)
		}
	}
}
