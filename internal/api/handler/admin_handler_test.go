package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

func TestAdminHandler_Summary(t *testing.T) {
	stub := &stubAdminService{
		summaryFn: func(ctx context.Context) (*ports.AdminSummary, error) {
			return &ports.AdminSummary{
				AccountsByRole:   map[domain.Role]int64{domain.RoleClient: 2, domain.RoleBabysitter: 1, domain.RoleAdmin: 1},
				BookingsByStatus: map[domain.BookingStatus]int64{domain.StatusPending: 3},
				TotalAccounts:    4,
				TotalBookings:    3,
			}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/admin/summary", "")

	if err := NewAdminHandler(stub, &stubBookingService{}).Summary(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccountsByRole["client"] != 2 || resp.BookingsByStatus["pending"] != 3 || resp.TotalAccounts != 4 {
		t.Fatalf("unexpected summary: %+v", resp)
	}
}

func TestAdminHandler_ListBookings(t *testing.T) {
	stub := &stubAdminService{
		listBookingsFn: func(ctx context.Context, in ports.ListBookingsInput) (*ports.BookingPage, error) {
			if in.Status != "pending" || in.Page != 1 || in.Limit != 10 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.BookingPage{
				Items:      []*domain.Booking{sampleBooking(domain.StatusPending)},
				Pagination: ports.Pagination{Total: 1, Page: 1, Limit: 10, TotalPages: 1},
			}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/admin/bookings?status=pending&page=1&limit=10", "")

	if err := NewAdminHandler(stub, &stubBookingService{}).ListBookings(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp listBookingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Pagination.TotalPages != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAdminHandler_ListBookings_InvalidStatus(t *testing.T) {
	stub := &stubAdminService{
		listBookingsFn: func(ctx context.Context, in ports.ListBookingsInput) (*ports.BookingPage, error) {
			return nil, domain.Validation("status must be one of: pending confirmed cancelled")
		},
	}
	c, _ := newContext(http.MethodGet, "/api/admin/bookings?status=weird", "")

	err := NewAdminHandler(stub, &stubBookingService{}).ListBookings(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdminHandler_History(t *testing.T) {
	at := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	stub := &stubBookingService{
		historyFn: func(ctx context.Context, bookingID string) ([]domain.BookingEvent, error) {
			return []domain.BookingEvent{
				{BookingID: bookingID, ToStatus: domain.StatusPending, ActorID: "c-1", ActorRole: domain.RoleClient, At: at},
				{BookingID: bookingID, FromStatus: domain.StatusPending, ToStatus: domain.StatusConfirmed, ActorID: "b-1", ActorRole: domain.RoleBabysitter, At: at.Add(time.Hour)},
			}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/admin/bookings/bk-1/history", "")
	c.SetParamNames("id")
	c.SetParamValues("bk-1")

	if err := NewAdminHandler(&stubAdminService{}, stub).History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var events []bookingEventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(events) != 2 || events[1].FromStatus != "pending" || events[1].ToStatus != "confirmed" {
		t.Fatalf("unexpected events: %+v", events)
	}
}
