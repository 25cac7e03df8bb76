package api

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

// memStore backs both repositories so the account cascade can reach bookings.
type memStore struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	bookings map[string]*domain.Booking
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[string]*domain.Account),
		bookings: make(map[string]*domain.Booking),
	}
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	if a.Profile != nil {
		p := *a.Profile
		p.AvailableDays = append([]string(nil), a.Profile.AvailableDays...)
		c.Profile = &p
	}
	return &c
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	return &c
}

type memAccounts struct{ s *memStore }

func (r memAccounts) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	r.s.accounts[a.ID] = copyAccount(a)
	return copyAccount(a), nil
}

func (r memAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if strings.EqualFold(a.Email, email) {
			return copyAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r memAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(a), nil
}

func (r memAccounts) UpdateClientProfile(_ context.Context, id string, upd ports.ClientProfileUpdate) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.Name, a.Phone, a.Address, a.Region, a.Children = upd.Name, upd.Phone, upd.Address, upd.Region, upd.Children
	return copyAccount(a), nil
}

func (r memAccounts) UpdateBabysitterProfile(_ context.Context, id string, upd ports.BabysitterProfileUpdate) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.Name, a.Phone = upd.Name, upd.Phone
	a.Profile = &domain.BabysitterProfile{
		AccountID:     id,
		Region:        upd.Profile.Region,
		HourlyRate:    upd.Profile.HourlyRate,
		AvailableDays: upd.Profile.AvailableDays,
		AvailableFrom: upd.Profile.AvailableFrom,
		AvailableTo:   upd.Profile.AvailableTo,
		About:         upd.Profile.About,
	}
	return copyAccount(a), nil
}

func (r memAccounts) Delete(_ context.Context, id string) ([]ports.CancelledBooking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[id]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	var cancelled []ports.CancelledBooking
	for _, b := range r.s.bookings {
		if b.ClientID != id && b.BabysitterID != id {
			continue
		}
		if b.Status == domain.StatusPending || b.Status == domain.StatusConfirmed {
			cancelled = append(cancelled, ports.CancelledBooking{BookingID: b.ID, PreviousStatus: b.Status})
			b.Status = domain.StatusCancelled
		}
		if b.ClientID == id {
			b.ClientID = ""
		}
		if b.BabysitterID == id {
			b.BabysitterID = ""
		}
	}
	delete(r.s.accounts, id)
	return cancelled, nil
}

func (r memAccounts) SearchBabysitters(_ context.Context, f ports.BabysitterFilter) ([]*domain.Account, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Account
	for _, a := range r.s.accounts {
		if a.Role != domain.RoleBabysitter || a.Profile == nil {
			continue
		}
		if f.Region != "" && !strings.EqualFold(a.Profile.Region, f.Region) {
			continue
		}
		out = append(out, copyAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r memAccounts) CountByRole(context.Context) (map[domain.Role]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[domain.Role]int64)
	for _, a := range r.s.accounts {
		counts[a.Role]++
	}
	return counts, nil
}

type memBookings struct{ s *memStore }

func (r memBookings) Create(_ context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[b.ID] = copyBooking(b)
	return nil
}

func (r memBookings) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

func (r memBookings) list(match func(*domain.Booking) bool) []*domain.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.Booking{}
	for _, b := range r.s.bookings {
		if match(b) {
			out = append(out, copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TimeStart < out[j].TimeStart
	})
	return out
}

func (r memBookings) ListByClient(_ context.Context, clientID string) ([]*domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.ClientID == clientID }), nil
}

func (r memBookings) ListByBabysitter(_ context.Context, babysitterID string) ([]*domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.BabysitterID == babysitterID }), nil
}

func (r memBookings) UpdateStatus(_ context.Context, id string, expected, next domain.BookingStatus) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.Status != expected {
		return nil, domain.ErrStatusChanged
	}
	b.Status = next
	return copyBooking(b), nil
}

func (r memBookings) List(_ context.Context, f ports.BookingFilter) ([]*domain.Booking, int64, error) {
	items := r.list(func(b *domain.Booking) bool { return f.Status == "" || string(b.Status) == f.Status })
	return items, int64(len(items)), nil
}

func (r memBookings) CountByStatus(context.Context) (map[domain.BookingStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[domain.BookingStatus]int64)
	for _, b := range r.s.bookings {
		counts[b.Status]++
	}
	return counts, nil
}
