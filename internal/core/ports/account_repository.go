package ports

import (
	"context"

	"github.com/sitterhub/marketplace/internal/core/domain"
)

// BabysitterFilter carries the public search parameters.
type BabysitterFilter struct {
	Region       string // optional: exact, case-insensitive match
	Availability string // optional: normalized weekday name
	Page         int    // 1-based
	Limit        int
}

// CancelledBooking identifies a booking cancelled as a side effect of an
// account deletion, with the status it had before.
type CancelledBooking struct {
	BookingID      string
	PreviousStatus domain.BookingStatus
}

// AccountRepository defines persistence for accounts and babysitter profiles.
type AccountRepository interface {
	// Create inserts the account and, for babysitters, its profile in one
	// transaction. Returns domain.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// FindByID loads the account together with its babysitter profile, if any.
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	UpdateClientProfile(ctx context.Context, id string, upd ClientProfileUpdate) (*domain.Account, error)
	UpdateBabysitterProfile(ctx context.Context, id string, upd BabysitterProfileUpdate) (*domain.Account, error)
	// Delete cancels every live booking that references the account and then
	// removes the account, all in one transaction.
	Delete(ctx context.Context, id string) ([]CancelledBooking, error)
	SearchBabysitters(ctx context.Context, filter BabysitterFilter) ([]*domain.Account, int64, error)
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}
