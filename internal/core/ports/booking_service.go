package ports

import (
	"context"

	"github.com/sitterhub/marketplace/internal/core/domain"
)

// CreateBookingInput carries the data needed to request a booking.
type CreateBookingInput struct {
	ClientID     string
	BabysitterID string
	Date         string // YYYY-MM-DD
	TimeStart    string // HH:MM
	TimeEnd      string // HH:MM
}

// UpdateStatusInput carries a status change request and who is asking.
type UpdateStatusInput struct {
	BookingID     string
	Status        domain.BookingStatus
	RequesterID   string
	RequesterRole domain.Role
}

// ListBookingsInput carries the admin listing query.
type ListBookingsInput struct {
	Status string
	Page   int
	Limit  int
}

// BookingPage is one page of bookings.
type BookingPage struct {
	Items []*domain.Booking
	Pagination
}

// AdminSummary aggregates dashboard counters.
type AdminSummary struct {
	AccountsByRole   map[domain.Role]int64
	BookingsByStatus map[domain.BookingStatus]int64
	TotalAccounts    int64
	TotalBookings    int64
}

// BookingService defines use-case operations for bookings.
type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Booking, error)
	ListByBabysitter(ctx context.Context, babysitterID string) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, in UpdateStatusInput) (*domain.Booking, error)
	History(ctx context.Context, bookingID string) ([]domain.BookingEvent, error)
}

// AdminService defines the dashboard read operations.
type AdminService interface {
	Summary(ctx context.Context) (*AdminSummary, error)
	ListBookings(ctx context.Context, in ListBookingsInput) (*BookingPage, error)
}
