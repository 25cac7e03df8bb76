package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sitterhub/marketplace/internal/api/middleware"
	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	loginFn    func(ctx context.Context, email, password string, allowed ...domain.Role) (*ports.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string, allowed ...domain.Role) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password, allowed...)
}

type stubAccountService struct {
	profileFn          func(ctx context.Context, accountID string) (*domain.Account, error)
	updateClientFn     func(ctx context.Context, accountID string, upd ports.ClientProfileUpdate) (*domain.Account, error)
	updateBabysitterFn func(ctx context.Context, accountID string, upd ports.BabysitterProfileUpdate) (*domain.Account, error)
	deleteFn           func(ctx context.Context, accountID, requesterID string) error
	searchFn           func(ctx context.Context, in ports.SearchBabysittersInput) (*ports.BabysitterPage, error)
	getBabysitterFn    func(ctx context.Context, id string) (*domain.Account, error)
}

func (s *stubAccountService) Profile(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.profileFn(ctx, accountID)
}

func (s *stubAccountService) UpdateClientProfile(ctx context.Context, accountID string, upd ports.ClientProfileUpdate) (*domain.Account, error) {
	return s.updateClientFn(ctx, accountID, upd)
}

func (s *stubAccountService) UpdateBabysitterProfile(ctx context.Context, accountID string, upd ports.BabysitterProfileUpdate) (*domain.Account, error) {
	return s.updateBabysitterFn(ctx, accountID, upd)
}

func (s *stubAccountService) Delete(ctx context.Context, accountID, requesterID string) error {
	return s.deleteFn(ctx, accountID, requesterID)
}

func (s *stubAccountService) SearchBabysitters(ctx context.Context, in ports.SearchBabysittersInput) (*ports.BabysitterPage, error) {
	return s.searchFn(ctx, in)
}

func (s *stubAccountService) GetBabysitter(ctx context.Context, id string) (*domain.Account, error) {
	return s.getBabysitterFn(ctx, id)
}

type stubBookingService struct {
	createFn           func(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error)
	listByClientFn     func(ctx context.Context, clientID string) ([]*domain.Booking, error)
	listByBabysitterFn func(ctx context.Context, babysitterID string) ([]*domain.Booking, error)
	updateStatusFn     func(ctx context.Context, in ports.UpdateStatusInput) (*domain.Booking, error)
	historyFn          func(ctx context.Context, bookingID string) ([]domain.BookingEvent, error)
}

func (s *stubBookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	return s.createFn(ctx, in)
}

func (s *stubBookingService) ListByClient(ctx context.Context, clientID string) ([]*domain.Booking, error) {
	return s.listByClientFn(ctx, clientID)
}

func (s *stubBookingService) ListByBabysitter(ctx context.Context, babysitterID string) ([]*domain.Booking, error) {
	return s.listByBabysitterFn(ctx, babysitterID)
}

func (s *stubBookingService) UpdateStatus(ctx context.Context, in ports.UpdateStatusInput) (*domain.Booking, error) {
	return s.updateStatusFn(ctx, in)
}

func (s *stubBookingService) History(ctx context.Context, bookingID string) ([]domain.BookingEvent, error) {
	return s.historyFn(ctx, bookingID)
}

type stubAdminService struct {
	summaryFn      func(ctx context.Context) (*ports.AdminSummary, error)
	listBookingsFn func(ctx context.Context, in ports.ListBookingsInput) (*ports.BookingPage, error)
}

func (s *stubAdminService) Summary(ctx context.Context) (*ports.AdminSummary, error) {
	return s.summaryFn(ctx)
}

func (s *stubAdminService) ListBookings(ctx context.Context, in ports.ListBookingsInput) (*ports.BookingPage, error) {
	return s.listBookingsFn(ctx, in)
}

// newContext builds an echo context with the validator installed. A non-empty
// body is sent as JSON.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate sets the identity the Auth middleware would have injected.
func authenticate(c echo.Context, accountID string, role domain.Role) {
	c.Set(middleware.ContextKeyAccountID, accountID)
	c.Set(middleware.ContextKeyRole, role)
}
