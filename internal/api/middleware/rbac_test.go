package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sitterhub/marketplace/internal/core/domain"
)

func newRBACContext(role domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(ContextKeyAccountID, "acc-1")
		c.Set(ContextKeyRole, role)
	}
	return c, rec
}

func TestRBAC_Allows(t *testing.T) {
	c, rec := newRBACContext(domain.RoleAdmin)

	called := false
	mw := RBAC(domain.RoleAdmin, domain.RoleBabysitter)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	c, _ := newRBACContext(domain.RoleClient)

	mw := RBAC(domain.RoleAdmin, domain.RoleBabysitter)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrRoleNotPermitted) {
		t.Fatalf("expected ErrRoleNotPermitted, got %v", err)
	}
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected authorization class")
	}
}

func TestRBAC_WithoutAuth(t *testing.T) {
	c, _ := newRBACContext("")

	err := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestRBAC_UnknownRoleString(t *testing.T) {
	c, _ := newRBACContext("")
	c.Set(ContextKeyAccountID, "acc-1")
	c.Set(ContextKeyRole, "admin") // plain string, not domain.Role

	err := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)
	if err == nil {
		t.Fatalf("expected rejection")
	}
}
