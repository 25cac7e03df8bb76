package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

func sampleBabysitter() *domain.Account {
	return &domain.Account{
		ID: "b-1", Name: "Bea", Email: "bea@example.com", Phone: "555", Role: domain.RoleBabysitter,
		Profile: &domain.BabysitterProfile{
			AccountID: "b-1", Region: "Centro", HourlyRate: 10,
			AvailableDays: []string{"monday"}, BackgroundCheckRef: "chk-1",
		},
	}
}

func TestBabysitterHandler_Search(t *testing.T) {
	stub := &stubAccountService{
		searchFn: func(ctx context.Context, in ports.SearchBabysittersInput) (*ports.BabysitterPage, error) {
			if in.Region != "centro" || in.Availability != "monday" || in.Page != 2 || in.Limit != 5 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.BabysitterPage{
				Items:      []*domain.Account{sampleBabysitter()},
				Pagination: ports.Pagination{Total: 6, Page: 2, Limit: 5, TotalPages: 2},
			}, nil
		},
	}
	h := NewBabysitterHandler(stub, &stubBookingService{})

	c, rec := newContext(http.MethodGet, "/api/babysitters?region=centro&availability=monday&page=2&limit=5", "")
	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if strings.Contains(body, "bea@example.com") || strings.Contains(body, "chk-1") {
		t.Fatalf("public listing leaks private data: %s", body)
	}

	var resp babysitterListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Region != "Centro" {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
	if resp.Pagination.Total != 6 || resp.Pagination.TotalPages != 2 {
		t.Fatalf("unexpected pagination: %+v", resp.Pagination)
	}
}

func TestBabysitterHandler_Search_BadQuery(t *testing.T) {
	h := NewBabysitterHandler(&stubAccountService{}, &stubBookingService{})

	c, _ := newContext(http.MethodGet, "/api/babysitters?page=abc", "")
	if err := h.Search(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBabysitterHandler_Get_NotFound(t *testing.T) {
	stub := &stubAccountService{
		getBabysitterFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return nil, domain.ErrBabysitterNotFound
		},
	}
	c, _ := newContext(http.MethodGet, "/api/babysitters/nope", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")

	err := NewBabysitterHandler(stub, &stubBookingService{}).Get(c)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBabysitterHandler_Bookings_Ownership(t *testing.T) {
	stub := &stubBookingService{
		listByBabysitterFn: func(ctx context.Context, babysitterID string) ([]*domain.Booking, error) {
			return []*domain.Booking{sampleBooking(domain.StatusPending)}, nil
		},
	}
	h := NewBabysitterHandler(&stubAccountService{}, stub)

	run := func(account string, role domain.Role) error {
		c, _ := newContext(http.MethodGet, "/api/babysitters/b-1/bookings", "")
		c.SetParamNames("id")
		c.SetParamValues("b-1")
		authenticate(c, account, role)
		return h.Bookings(c)
	}

	if err := run("b-1", domain.RoleBabysitter); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if err := run("adm", domain.RoleAdmin); err != nil {
		t.Fatalf("admin: %v", err)
	}
	if err := run("b-2", domain.RoleBabysitter); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("other babysitter: expected not owner, got %v", err)
	}
}
