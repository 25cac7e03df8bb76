package ports

import (
	"context"

	"github.com/sitterhub/marketplace/internal/core/domain"
)

// BookingFilter carries the admin listing parameters.
type BookingFilter struct {
	Status string // optional
	Page   int    // 1-based
	Limit  int
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// ListByClient and ListByBabysitter order by date, then start time.
	// They return an empty slice when nothing matches.
	ListByClient(ctx context.Context, clientID string) ([]*domain.Booking, error)
	ListByBabysitter(ctx context.Context, babysitterID string) ([]*domain.Booking, error)
	// UpdateStatus sets next only if the stored status still equals expected.
	// It returns domain.ErrStatusChanged when no row matched that predicate.
	UpdateStatus(ctx context.Context, id string, expected, next domain.BookingStatus) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, int64, error)
	CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error)
}

// BookingAuditor keeps the append-only trail of booking status changes.
type BookingAuditor interface {
	Record(ctx context.Context, event domain.BookingEvent) error
	History(ctx context.Context, bookingID string) ([]domain.BookingEvent, error)
}

// LoginLimiter throttles logins per key. Allow counts the attempt and reports
// whether it is within the limit; a successful login calls Reset, so only
// failed attempts accumulate.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}
