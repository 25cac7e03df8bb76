package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sitterhub/marketplace/internal/api/metrics"
	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

const reasonAccountDeleted = "account_deleted"

// AccountService implements profile management and the public babysitter directory.
type AccountService struct {
	accounts ports.AccountRepository
	audit    ports.BookingAuditor
	log      zerolog.Logger
}

func NewAccountService(accounts ports.AccountRepository, audit ports.BookingAuditor, log zerolog.Logger) *AccountService {
	if audit == nil {
		audit = nopAuditor{}
	}
	return &AccountService{accounts: accounts, audit: audit, log: log}
}

func (s *AccountService) Profile(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) UpdateClientProfile(ctx context.Context, accountID string, upd ports.ClientProfileUpdate) (*domain.Account, error) {
	upd.Name = strings.TrimSpace(upd.Name)
	if upd.Name == "" {
		return nil, domain.Validation("name is required")
	}
	if upd.Children < 0 {
		return nil, domain.Validation("children must not be negative")
	}
	upd.Phone = strings.TrimSpace(upd.Phone)
	upd.Address = strings.TrimSpace(upd.Address)
	upd.Region = strings.TrimSpace(upd.Region)

	if _, err := s.requireRole(ctx, accountID, domain.RoleClient); err != nil {
		return nil, err
	}
	return s.accounts.UpdateClientProfile(ctx, accountID, upd)
}

func (s *AccountService) UpdateBabysitterProfile(ctx context.Context, accountID string, upd ports.BabysitterProfileUpdate) (*domain.Account, error) {
	upd.Name = strings.TrimSpace(upd.Name)
	if upd.Name == "" {
		return nil, domain.Validation("name is required")
	}
	if err := validateProfile(upd.Profile); err != nil {
		return nil, err
	}
	if _, err := s.requireRole(ctx, accountID, domain.RoleBabysitter); err != nil {
		return nil, err
	}

	p := newProfile(accountID, upd.Profile)
	upd.Phone = strings.TrimSpace(upd.Phone)
	upd.Profile = ports.BabysitterProfileInput{
		Region:             p.Region,
		HourlyRate:         p.HourlyRate,
		AvailableDays:      p.AvailableDays,
		AvailableFrom:      p.AvailableFrom,
		AvailableTo:        p.AvailableTo,
		About:              p.About,
		ProfilePhotoRef:    p.ProfilePhotoRef,
		BackgroundCheckRef: p.BackgroundCheckRef,
	}
	return s.accounts.UpdateBabysitterProfile(ctx, accountID, upd)
}

// Delete removes the requester's own account. Bookings that were still live
// are cancelled in the same transaction and recorded in the audit trail.
func (s *AccountService) Delete(ctx context.Context, accountID, requesterID string) error {
	if accountID != requesterID {
		return domain.ErrNotOwner
	}
	account, err := s.Profile(ctx, accountID)
	if err != nil {
		return err
	}

	cancelled, err := s.accounts.Delete(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrAccountNotFound
		}
		return err
	}

	now := time.Now().UTC()
	for _, c := range cancelled {
		metrics.BookingTransitionsTotal.WithLabelValues(string(c.PreviousStatus), string(domain.StatusCancelled), "system").Inc()
		event := domain.BookingEvent{
			BookingID:  c.BookingID,
			FromStatus: c.PreviousStatus,
			ToStatus:   domain.StatusCancelled,
			ActorID:    account.ID,
			ActorRole:  account.Role,
			Reason:     reasonAccountDeleted,
			At:         now,
		}
		if err := s.audit.Record(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("booking_id", c.BookingID).Msg("failed to record booking event")
		}
	}

	s.log.Info().
		Str("account_id", account.ID).
		Str("role", string(account.Role)).
		Int("cancelled_bookings", len(cancelled)).
		Msg("account deleted")
	return nil
}

// SearchBabysitters lists babysitters, optionally filtered by region and weekday.
func (s *AccountService) SearchBabysitters(ctx context.Context, in ports.SearchBabysittersInput) (*ports.BabysitterPage, error) {
	filter := ports.BabysitterFilter{Region: strings.TrimSpace(in.Region)}
	if in.Availability != "" {
		day, ok := domain.NormalizeWeekday(in.Availability)
		if !ok {
			return nil, domain.Validation("availability must be a weekday name")
		}
		filter.Availability = day
	}
	filter.Page, filter.Limit = normalizePage(in.Page, in.Limit)

	items, total, err := s.accounts.SearchBabysitters(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Account{}
	}
	return &ports.BabysitterPage{
		Items:      items,
		Pagination: newPagination(total, filter.Page, filter.Limit),
	}, nil
}

func (s *AccountService) GetBabysitter(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBabysitterNotFound
		}
		return nil, err
	}
	if account.Role != domain.RoleBabysitter {
		return nil, domain.ErrBabysitterNotFound
	}
	return account, nil
}

func (s *AccountService) requireRole(ctx context.Context, accountID string, role domain.Role) (*domain.Account, error) {
	account, err := s.Profile(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Role != role {
		return nil, domain.ErrRoleNotPermitted
	}
	return account, nil
}
