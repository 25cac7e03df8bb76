package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitterhub/marketplace/internal/core/ports"
)

type AdminHandler struct {
	admin    ports.AdminService
	bookings ports.BookingService
}

func NewAdminHandler(admin ports.AdminService, bookings ports.BookingService) *AdminHandler {
	return &AdminHandler{admin: admin, bookings: bookings}
}

// Summary returns dashboard counters.
//
// @Summary      Dashboard summary
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  summaryResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/summary [get]
func (h *AdminHandler) Summary(c echo.Context) error {
	s, err := h.admin.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSummary(s))
}

// ListBookings returns one page of all bookings, newest first.
//
// @Summary      List all bookings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending, confirmed or cancelled"
// @Param        page    query     int     false  "Page number (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  listBookingsResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /api/admin/bookings [get]
func (h *AdminHandler) ListBookings(c echo.Context) error {
	var q listBookingsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.admin.ListBookings(c.Request().Context(), ports.ListBookingsInput{
		Status: q.Status,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listBookingsResponse{
		Data:       toBookingResponses(page.Items),
		Pagination: toPaginationResponse(page.Pagination),
	})
}

// History returns the status trail of a booking.
//
// @Summary      Booking history
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {array}   bookingEventResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/bookings/{id}/history [get]
func (h *AdminHandler) History(c echo.Context) error {
	events, err := h.bookings.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}
