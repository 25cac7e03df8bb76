package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

// BabysitterHandler serves the public directory and the babysitter's own bookings.
type BabysitterHandler struct {
	accounts ports.AccountService
	bookings ports.BookingService
}

func NewBabysitterHandler(accounts ports.AccountService, bookings ports.BookingService) *BabysitterHandler {
	return &BabysitterHandler{accounts: accounts, bookings: bookings}
}

// Search lists babysitters, optionally filtered by region and weekday.
//
// @Summary      Search babysitters
// @Tags         babysitters
// @Produce      json
// @Param        region        query     string  false  "Region (case-insensitive)"
// @Param        availability  query     string  false  "Weekday, e.g. monday"
// @Param        page          query     int     false  "Page number (1-based)"
// @Param        limit         query     int     false  "Page size (max 100)"
// @Success      200           {object}  babysitterListResponse
// @Failure      400           {object}  errorResponse
// @Router       /api/babysitters [get]
func (h *BabysitterHandler) Search(c echo.Context) error {
	var q searchBabysittersQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.accounts.SearchBabysitters(c.Request().Context(), ports.SearchBabysittersInput{
		Region:       q.Region,
		Availability: q.Availability,
		Page:         q.Page,
		Limit:        q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, babysitterListResponse{
		Data:       toBabysitterResponses(page.Items),
		Pagination: toPaginationResponse(page.Pagination),
	})
}

// Get returns one public babysitter profile.
//
// @Summary      Get a babysitter
// @Tags         babysitters
// @Produce      json
// @Param        id   path      string  true  "Babysitter ID"
// @Success      200  {object}  babysitterResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/babysitters/{id} [get]
func (h *BabysitterHandler) Get(c echo.Context) error {
	account, err := h.accounts.GetBabysitter(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBabysitterResponse(account))
}

// Bookings lists the bookings assigned to a babysitter. Only that babysitter
// or an admin may read them.
//
// @Summary      List a babysitter's bookings
// @Tags         babysitters
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Babysitter ID"
// @Success      200  {array}   bookingResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/babysitters/{id}/bookings [get]
func (h *BabysitterHandler) Bookings(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	babysitterID := c.Param("id")
	if identity.Role != domain.RoleAdmin && identity.AccountID != babysitterID {
		return domain.ErrNotOwner
	}

	items, err := h.bookings.ListByBabysitter(c.Request().Context(), babysitterID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponses(items))
}
