package domain

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Confirmed and cancelled are terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending: {StatusConfirmed, StatusCancelled},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// IsRequestable reports whether s may be requested through a status update.
// Pending is only reachable at creation.
func (s BookingStatus) IsRequestable() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// Booking links one client and one babysitter for a date and time range.
// ClientID or BabysitterID is empty once the referenced account was deleted.
type Booking struct {
	ID           string        `json:"id"`
	ClientID     string        `json:"client_id"`
	BabysitterID string        `json:"babysitter_id"`
	Date         string        `json:"date"`
	TimeStart    string        `json:"time_start"`
	TimeEnd      string        `json:"time_end"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// BookingEvent is one entry of a booking's audit trail.
type BookingEvent struct {
	BookingID  string        `json:"booking_id"`
	FromStatus BookingStatus `json:"from_status,omitempty"`
	ToStatus   BookingStatus `json:"to_status"`
	ActorID    string        `json:"actor_id"`
	ActorRole  Role          `json:"actor_role"`
	Reason     string        `json:"reason,omitempty"`
	At         time.Time     `json:"at"`
}
