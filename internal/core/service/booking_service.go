package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sitterhub/marketplace/internal/api/metrics"
	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

// BookingService implements the booking lifecycle.
type BookingService struct {
	bookings ports.BookingRepository
	accounts ports.AccountRepository
	audit    ports.BookingAuditor
	log      zerolog.Logger
	now      func() time.Time
}

// BookingOption customizes a BookingService.
type BookingOption func(*BookingService)

// WithClock overrides the clock used to reject bookings in the past.
func WithClock(now func() time.Time) BookingOption {
	return func(s *BookingService) { s.now = now }
}

// NewBookingService wires the service. A nil auditor disables the audit trail.
func NewBookingService(
	bookings ports.BookingRepository,
	accounts ports.AccountRepository,
	audit ports.BookingAuditor,
	log zerolog.Logger,
	opts ...BookingOption,
) *BookingService {
	if audit == nil {
		audit = nopAuditor{}
	}
	s := &BookingService{
		bookings: bookings,
		accounts: accounts,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the request and stores a pending booking.
func (s *BookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	if err := requireFields(map[string]string{
		"babysitter_id": in.BabysitterID,
		"date":          in.Date,
		"time_start":    in.TimeStart,
		"time_end":      in.TimeEnd,
	}); err != nil {
		return nil, err
	}

	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return nil, domain.Validation("date must be YYYY-MM-DD")
	}
	start, err := domain.ParseClock(in.TimeStart)
	if err != nil {
		return nil, domain.Validation("time_start must be HH:MM")
	}
	end, err := domain.ParseClock(in.TimeEnd)
	if err != nil {
		return nil, domain.Validation("time_end must be HH:MM")
	}
	if start >= end {
		return nil, domain.Validation("time_start must be before time_end")
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, domain.Validation("date must not be in the past")
	}

	sitter, err := s.accounts.FindByID(ctx, in.BabysitterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBabysitterNotFound
		}
		return nil, err
	}
	if sitter.Role != domain.RoleBabysitter {
		return nil, domain.ErrBabysitterNotFound
	}

	booking := &domain.Booking{
		ID:           uuid.NewString(),
		ClientID:     in.ClientID,
		BabysitterID: sitter.ID,
		Date:         date.Format(domain.DateLayout),
		TimeStart:    fmt.Sprintf("%02d:%02d", start/60, start%60),
		TimeEnd:      fmt.Sprintf("%02d:%02d", end/60, end%60),
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// a foreign key failed: either party was deleted after its token or lookup
			return nil, s.missingParty(ctx, in.ClientID)
		}
		s.log.Error().Err(err).Msg("failed to create booking")
		return nil, err
	}

	metrics.BookingsCreatedTotal.Inc()
	s.record(ctx, domain.BookingEvent{
		BookingID: booking.ID,
		ToStatus:  domain.StatusPending,
		ActorID:   in.ClientID,
		ActorRole: domain.RoleClient,
		At:        now,
	})
	s.log.Info().
		Str("booking_id", booking.ID).
		Str("client_id", booking.ClientID).
		Str("babysitter_id", booking.BabysitterID).
		Msg("booking created")

	return booking, nil
}

func (s *BookingService) ListByClient(ctx context.Context, clientID string) ([]*domain.Booking, error) {
	items, err := s.bookings.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Booking{}
	}
	return items, nil
}

func (s *BookingService) ListByBabysitter(ctx context.Context, babysitterID string) ([]*domain.Booking, error) {
	items, err := s.bookings.ListByBabysitter(ctx, babysitterID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Booking{}
	}
	return items, nil
}

// UpdateStatus applies a babysitter or admin decision to a pending booking.
// The final write is conditional on the status read here, so of two racing
// callers exactly one succeeds and the other gets a conflict.
func (s *BookingService) UpdateStatus(ctx context.Context, in ports.UpdateStatusInput) (*domain.Booking, error) {
	if !in.RequesterRole.CanManageBookings() {
		return nil, domain.ErrRoleNotPermitted
	}
	if !in.Status.IsRequestable() {
		return nil, domain.Validation("status must be one of: confirmed cancelled")
	}

	current, err := s.bookings.FindByID(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	if in.RequesterRole == domain.RoleBabysitter && current.BabysitterID != in.RequesterID {
		return nil, domain.ErrNotOwner
	}

	// 1. Validate state machine transition.
	if !current.Status.CanTransitionTo(in.Status) {
		metrics.BookingConflictsTotal.WithLabelValues("invalid_transition").Inc()
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, in.Status)
	}

	// 2. Conditional write against the status we validated.
	updated, err := s.bookings.UpdateStatus(ctx, current.ID, current.Status, in.Status)
	if err != nil {
		if errors.Is(err, domain.ErrStatusChanged) {
			metrics.BookingConflictsTotal.WithLabelValues("concurrent_update").Inc()
		}
		return nil, err
	}

	// 3. Audit trail (non-fatal on failure).
	metrics.BookingTransitionsTotal.WithLabelValues(string(current.Status), string(in.Status), string(in.RequesterRole)).Inc()
	s.record(ctx, domain.BookingEvent{
		BookingID:  updated.ID,
		FromStatus: current.Status,
		ToStatus:   updated.Status,
		ActorID:    in.RequesterID,
		ActorRole:  in.RequesterRole,
		At:         s.now().UTC(),
	})

	s.log.Info().
		Str("booking_id", updated.ID).
		Str("from", string(current.Status)).
		Str("to", string(updated.Status)).
		Str("actor_role", string(in.RequesterRole)).
		Msg("booking status changed")

	return updated, nil
}

// missingParty names the account a failed booking insert referenced. A client
// deleted while still holding a valid token reports ErrAccountNotFound.
func (s *BookingService) missingParty(ctx context.Context, clientID string) error {
	if _, err := s.accounts.FindByID(ctx, clientID); errors.Is(err, domain.ErrNotFound) {
		return domain.ErrAccountNotFound
	}
	return domain.ErrBabysitterNotFound
}

// History returns the audit trail of a booking, oldest first.
func (s *BookingService) History(ctx context.Context, bookingID string) ([]domain.BookingEvent, error) {
	if _, err := s.bookings.FindByID(ctx, bookingID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	events, err := s.audit.History(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.BookingEvent{}
	}
	return events, nil
}

func (s *BookingService) record(ctx context.Context, event domain.BookingEvent) {
	if err := s.audit.Record(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("booking_id", event.BookingID).Msg("failed to record booking event")
	}
}

// requireFields reports every empty field in one validation error.
func requireFields(fields map[string]string) error {
	var missing []string
	for _, name := range []string{"babysitter_id", "date", "time_start", "time_end"} {
		v, ok := fields[name]
		if ok && strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return domain.Validation("%s is required", strings.Join(missing, ", "))
	}
	return nil
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, domain.BookingEvent) error { return nil }
func (nopAuditor) History(context.Context, string) ([]domain.BookingEvent, error) {
	return nil, nil
}
