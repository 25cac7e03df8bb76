package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sitterhub/marketplace/internal/core/domain"
)

// Context keys set by Auth.
const (
	ContextKeyAccountID = "account_id"
	ContextKeyRole      = "role"
)

// TokenVerifier decodes a session token into the identity it proves.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

// Auth validates the bearer token and injects the account id and role into
// the context. It never touches the store.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrMissingToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrMissingToken
			}

			identity, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return domain.ErrInvalidToken
			}

			c.Set(ContextKeyAccountID, identity.AccountID)
			c.Set(ContextKeyRole, identity.Role)

			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	id, _ := c.Get(ContextKeyAccountID).(string)
	role, _ := c.Get(ContextKeyRole).(domain.Role)
	if id == "" || !role.Valid() {
		return nil, false
	}
	return &domain.Identity{AccountID: id, Role: role}, true
}
