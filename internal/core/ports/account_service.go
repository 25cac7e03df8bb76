package ports

import (
	"context"

	"github.com/sitterhub/marketplace/internal/core/domain"
)

// BabysitterProfileInput holds the babysitter-specific registration and profile fields.
type BabysitterProfileInput struct {
	Region             string
	HourlyRate         float64
	AvailableDays      []string
	AvailableFrom      string
	AvailableTo        string
	About              string
	ProfilePhotoRef    string
	BackgroundCheckRef string
}

// RegisterInput carries everything needed to create an account.
type RegisterInput struct {
	Role     domain.Role
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	Region   string
	Children int
	// Babysitter is required when Role is babysitter and ignored otherwise.
	Babysitter *BabysitterProfileInput
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token   string
	Account domain.AccountSummary
	Role    domain.Role
}

// ClientProfileUpdate replaces the mutable fields of a client account.
type ClientProfileUpdate struct {
	Name     string
	Phone    string
	Address  string
	Region   string
	Children int
}

// BabysitterProfileUpdate replaces the mutable fields of a babysitter account.
type BabysitterProfileUpdate struct {
	Name    string
	Phone   string
	Profile BabysitterProfileInput
}

// SearchBabysittersInput carries the public search query.
type SearchBabysittersInput struct {
	Region       string
	Availability string
	Page         int
	Limit        int
}

// Pagination describes one page of a listing.
type Pagination struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// BabysitterPage is one page of search results.
type BabysitterPage struct {
	Items []*domain.Account
	Pagination
}

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	// Login authenticates against accounts whose role is in allowed.
	Login(ctx context.Context, email, password string, allowed ...domain.Role) (*LoginResult, error)
}

// AccountService defines profile and account lifecycle operations.
type AccountService interface {
	Profile(ctx context.Context, accountID string) (*domain.Account, error)
	UpdateClientProfile(ctx context.Context, accountID string, upd ClientProfileUpdate) (*domain.Account, error)
	UpdateBabysitterProfile(ctx context.Context, accountID string, upd BabysitterProfileUpdate) (*domain.Account, error)
	Delete(ctx context.Context, accountID, requesterID string) error
	SearchBabysitters(ctx context.Context, in SearchBabysittersInput) (*BabysitterPage, error)
	GetBabysitter(ctx context.Context, id string) (*domain.Account, error)
}
