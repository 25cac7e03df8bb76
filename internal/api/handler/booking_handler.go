package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

type BookingHandler struct {
	bookings ports.BookingService
}

func NewBookingHandler(bookings ports.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create requests a booking with a babysitter. The client is taken from the token.
//
// @Summary      Create a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Booking request"
// @Success      201   {object}  bookingEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.bookings.Create(c.Request().Context(), ports.CreateBookingInput{
		ClientID:     identity.AccountID,
		BabysitterID: req.BabysitterID,
		Date:         req.Date,
		TimeStart:    req.TimeStart,
		TimeEnd:      req.TimeEnd,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, bookingEnvelope{Booking: toBookingResponse(booking)})
}

// ListByClient lists the bookings of a client account. Clients may only read
// their own list; admins may read any.
//
// @Summary      List a client's bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client account ID"
// @Success      200  {array}   bookingResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/bookings/{id} [get]
func (h *BookingHandler) ListByClient(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	clientID := c.Param("id")
	if identity.Role != domain.RoleAdmin && identity.AccountID != clientID {
		return domain.ErrNotOwner
	}

	items, err := h.bookings.ListByClient(c.Request().Context(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponses(items))
}

// UpdateStatus confirms or cancels a pending booking.
//
// @Summary      Update booking status
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Booking ID"
// @Param        body  body      updateStatusRequest  true  "New status (confirmed or cancelled)"
// @Success      200   {object}  bookingEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/bookings/{id}/status [put]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.bookings.UpdateStatus(c.Request().Context(), ports.UpdateStatusInput{
		BookingID:     c.Param("id"),
		Status:        domain.BookingStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		RequesterID:   identity.AccountID,
		RequesterRole: identity.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingEnvelope{Booking: toBookingResponse(booking)})
}
