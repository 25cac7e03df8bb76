package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

// AdminService serves the read-only administration dashboard.
type AdminService struct {
	accounts ports.AccountRepository
	bookings ports.BookingRepository
	log      zerolog.Logger
}

func NewAdminService(accounts ports.AccountRepository, bookings ports.BookingRepository, log zerolog.Logger) *AdminService {
	return &AdminService{accounts: accounts, bookings: bookings, log: log}
}

// Summary returns account counts per role and booking counts per status.
// Roles and statuses with no rows are reported as zero.
func (s *AdminService) Summary(ctx context.Context) (*ports.AdminSummary, error) {
	byRole, err := s.accounts.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	out := &ports.AdminSummary{
		AccountsByRole:   make(map[domain.Role]int64, 3),
		BookingsByStatus: make(map[domain.BookingStatus]int64, 3),
	}
	for _, r := range []domain.Role{domain.RoleClient, domain.RoleBabysitter, domain.RoleAdmin} {
		out.AccountsByRole[r] = byRole[r]
		out.TotalAccounts += byRole[r]
	}
	for _, st := range []domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled} {
		out.BookingsByStatus[st] = byStatus[st]
		out.TotalBookings += byStatus[st]
	}
	return out, nil
}

// ListBookings pages through every booking, optionally filtered by status.
func (s *AdminService) ListBookings(ctx context.Context, in ports.ListBookingsInput) (*ports.BookingPage, error) {
	filter := ports.BookingFilter{}
	if status := strings.ToLower(strings.TrimSpace(in.Status)); status != "" {
		if !domain.BookingStatus(status).Valid() {
			return nil, domain.Validation("status must be one of: pending confirmed cancelled")
		}
		filter.Status = status
	}
	filter.Page, filter.Limit = normalizePage(in.Page, in.Limit)

	items, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list bookings")
		return nil, err
	}
	if items == nil {
		items = []*domain.Booking{}
	}
	return &ports.BookingPage{Items: items, Pagination: newPagination(total, filter.Page, filter.Limit)}, nil
}
