package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitterhub/marketplace/internal/core/ports"
)

// ProfileHandler serves the self-service profile routes of clients and babysitters.
// The account is always the one named by the token.
type ProfileHandler struct {
	accounts ports.AccountService
}

func NewProfileHandler(accounts ports.AccountService) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

// Get returns the caller's account.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/profile [get]
// @Router       /api/babysitters/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	account, err := h.accounts.Profile(c.Request().Context(), identity.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// UpdateClient replaces the mutable fields of the caller's client account.
//
// @Summary      Update client profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateClientProfileRequest  true  "Profile fields"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/users/profile [put]
func (h *ProfileHandler) UpdateClient(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req updateClientProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.UpdateClientProfile(c.Request().Context(), identity.AccountID, ports.ClientProfileUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Region:   req.Region,
		Children: req.Children,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// UpdateBabysitter replaces the caller's babysitter profile.
//
// @Summary      Update babysitter profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateBabysitterProfileRequest  true  "Profile fields"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/babysitters/profile [put]
func (h *ProfileHandler) UpdateBabysitter(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req updateBabysitterProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.UpdateBabysitterProfile(c.Request().Context(), identity.AccountID, ports.BabysitterProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Profile: toProfileInput(req.babysitterProfileRequest),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Delete removes the caller's account and cancels its live bookings.
//
// @Summary      Delete own account
// @Tags         profile
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/profile [delete]
// @Router       /api/babysitters/profile [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	if err := h.accounts.Delete(c.Request().Context(), identity.AccountID, identity.AccountID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
