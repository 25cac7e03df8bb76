package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sitterhub/marketplace/internal/api/middleware"
	"github.com/sitterhub/marketplace/internal/core/domain"
)

// currentIdentity returns the identity injected by the Auth middleware.
// A route mounted without Auth yields ErrMissingToken rather than a panic.
func currentIdentity(c echo.Context) (*domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, domain.ErrMissingToken
	}
	return identity, nil
}

// bindAndValidate decodes the request into dst and runs the registered validator.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return domain.Validation("invalid payload")
	}
	return c.Validate(dst)
}
