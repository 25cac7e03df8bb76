package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu       sync.Mutex
	byID     map[string]*domain.Account
	bookings *stubBookingRepo // optional, used by Delete for the cascade
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	if a.Profile != nil {
		p := *a.Profile
		p.AvailableDays = append([]string(nil), a.Profile.AvailableDays...)
		clone.Profile = &p
	}
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.byID[a.ID] = cloneAccount(a)
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) UpdateClientProfile(_ context.Context, id string, upd ports.ClientProfileUpdate) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.Name, a.Phone, a.Address, a.Region, a.Children = upd.Name, upd.Phone, upd.Address, upd.Region, upd.Children
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) UpdateBabysitterProfile(_ context.Context, id string, upd ports.BabysitterProfileUpdate) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.Name, a.Phone, a.Region = upd.Name, upd.Phone, upd.Profile.Region
	a.Profile = &domain.BabysitterProfile{
		AccountID:     id,
		Region:        upd.Profile.Region,
		HourlyRate:    upd.Profile.HourlyRate,
		AvailableDays: upd.Profile.AvailableDays,
		AvailableFrom: upd.Profile.AvailableFrom,
		AvailableTo:   upd.Profile.AvailableTo,
		About:         upd.Profile.About,
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) ([]ports.CancelledBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	delete(r.byID, id)

	var cancelled []ports.CancelledBooking
	if r.bookings != nil {
		r.bookings.mu.Lock()
		for _, b := range r.bookings.byID {
			if b.ClientID != id && b.BabysitterID != id {
				continue
			}
			if b.Status != domain.StatusCancelled {
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
		r.bookings.mu.Unlock()
	}
	return cancelled, nil
}

func (r *stubAccountRepo) SearchBabysitters(_ context.Context, f ports.BabysitterFilter) ([]*domain.Account, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Account
	for _, a := range r.byID {
		if a.Role != domain.RoleBabysitter || a.Profile == nil {
			continue
		}
		if f.Region != "" && !strings.EqualFold(a.Profile.Region, f.Region) {
			continue
		}
		if f.Availability != "" && !containsDay(a.Profile.AvailableDays, f.Availability) {
			continue
		}
		matched = append(matched, cloneAccount(a))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip >= len(matched) {
		return []*domain.Account{}, total, nil
	}
	end := min(skip+f.Limit, len(matched))
	return matched[skip:end], total, nil
}

func (r *stubAccountRepo) CountByRole(context.Context) (map[domain.Role]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[domain.Role]int64)
	for _, a := range r.byID {
		out[a.Role]++
	}
	return out, nil
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

type stubBookingRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Booking
	createErr error
	// beforeUpdate runs inside UpdateStatus before the predicate is checked.
	beforeUpdate func()
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{byID: make(map[string]*domain.Booking)}
}

func (r *stubBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.byID[b.ID] = &clone
	return nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookingRepo) list(match func(*domain.Booking) bool) []*domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Booking{}
	for _, b := range r.byID {
		if match(b) {
			clone := *b
			out = append(out, &clone)
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

func (r *stubBookingRepo) ListByClient(_ context.Context, clientID string) ([]*domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.ClientID == clientID }), nil
}

func (r *stubBookingRepo) ListByBabysitter(_ context.Context, babysitterID string) ([]*domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.BabysitterID == babysitterID }), nil
}

func (r *stubBookingRepo) UpdateStatus(_ context.Context, id string, expected, next domain.BookingStatus) (*domain.Booking, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok || b.Status != expected {
		return nil, domain.ErrStatusChanged
	}
	b.Status = next
	b.UpdatedAt = time.Now().UTC()
	clone := *b
	return &clone, nil
}

func (r *stubBookingRepo) List(_ context.Context, f ports.BookingFilter) ([]*domain.Booking, int64, error) {
	all := r.list(func(b *domain.Booking) bool { return f.Status == "" || string(b.Status) == f.Status })
	total := int64(len(all))
	skip := (f.Page - 1) * f.Limit
	if skip >= len(all) {
		return []*domain.Booking{}, total, nil
	}
	return all[skip:min(skip+f.Limit, len(all))], total, nil
}

func (r *stubBookingRepo) CountByStatus(context.Context) (map[domain.BookingStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[domain.BookingStatus]int64)
	for _, b := range r.byID {
		out[b.Status]++
	}
	return out, nil
}

type stubAuditor struct {
	mu        sync.Mutex
	events    []domain.BookingEvent
	recordErr error
}

func (a *stubAuditor) Record(_ context.Context, e domain.BookingEvent) error {
	if a.recordErr != nil {
		return a.recordErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
	return nil
}

func (a *stubAuditor) History(_ context.Context, bookingID string) ([]domain.BookingEvent, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []domain.BookingEvent
	for _, e := range a.events {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubLimiter struct {
	limit    int
	attempts map[string]int
	allowErr error
}

func newStubLimiter(limit int) *stubLimiter {
	return &stubLimiter{limit: limit, attempts: make(map[string]int)}
}

func (l *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l.allowErr != nil {
		return false, l.allowErr
	}
	l.attempts[key]++
	return l.attempts[key] <= l.limit, nil
}

func (l *stubLimiter) Reset(_ context.Context, key string) error {
	delete(l.attempts, key)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestAuthService(repo *stubAccountRepo, limiter ports.LoginLimiter) *AuthService {
	svc := NewAuthService(repo, NewTokenIssuer("test-secret", time.Hour), limiter, discardLogger)
	svc.hashCost = 4 // bcrypt.MinCost keeps the suite fast
	return svc
}

func seedAccount(repo *stubAccountRepo, id string, role domain.Role) *domain.Account {
	a := &domain.Account{ID: id, Name: "Name " + id, Email: id + "@example.com", Role: role}
	if role == domain.RoleBabysitter {
		a.Profile = &domain.BabysitterProfile{AccountID: id, Region: "Centro", AvailableDays: []string{"monday"}}
		a.Region = "Centro"
	}
	repo.byID[id] = a
	return a
}

func seedBooking(repo *stubBookingRepo, id, clientID, babysitterID string, status domain.BookingStatus) *domain.Booking {
	b := &domain.Booking{
		ID: id, ClientID: clientID, BabysitterID: babysitterID,
		Date: "2030-01-10", TimeStart: "18:00", TimeEnd: "22:00", Status: status,
	}
	repo.byID[id] = b
	return b
}
