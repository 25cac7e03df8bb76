package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterClient creates a client account.
//
// @Summary      Register a client
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerClientRequest  true  "Client registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/users/register [post]
func (h *AuthHandler) RegisterClient(c echo.Context) error {
	var req registerClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.authService.Register(c.Request().Context(), toClientRegisterInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, registerResponse{User: toSummaryResponse(account.Summary())})
}

// RegisterBabysitter creates a babysitter account together with its profile.
//
// @Summary      Register a babysitter
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerBabysitterRequest  true  "Babysitter registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/babysitters/register [post]
func (h *AuthHandler) RegisterBabysitter(c echo.Context) error {
	var req registerBabysitterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.authService.Register(c.Request().Context(), toBabysitterRegisterInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, registerResponse{User: toSummaryResponse(account.Summary())})
}

// LoginClient authenticates a client and returns a session token.
//
// @Summary      Client login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/users/login [post]
func (h *AuthHandler) LoginClient(c echo.Context) error {
	return h.login(c, domain.RoleClient)
}

// LoginBabysitter authenticates a babysitter.
//
// @Summary      Babysitter login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/babysitters/login [post]
func (h *AuthHandler) LoginBabysitter(c echo.Context) error {
	return h.login(c, domain.RoleBabysitter)
}

// LoginAdmin authenticates the administrator.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/admin/login [post]
func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	return h.login(c, domain.RoleAdmin)
}

func (h *AuthHandler) login(c echo.Context, role domain.Role) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token: res.Token,
		User:  toSummaryResponse(res.Account),
		Role:  string(res.Role),
	})
}
