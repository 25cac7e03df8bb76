package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type registerClientRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone"    validate:"omitempty,max=40"`
	Address  string `json:"address"  validate:"omitempty,max=255"`
	Region   string `json:"region"   validate:"omitempty,max=120"`
	Children int    `json:"children" validate:"gte=0"`
}

type babysitterProfileRequest struct {
	Region             string   `json:"region"               validate:"required,max=120"`
	HourlyRate         float64  `json:"hourly_rate"          validate:"gte=0"`
	AvailableDays      []string `json:"available_days"       validate:"max=7"`
	AvailableFrom      string   `json:"available_from"       validate:"omitempty,datetime=15:04"`
	AvailableTo        string   `json:"available_to"         validate:"omitempty,datetime=15:04"`
	About              string   `json:"about"                validate:"max=2000"`
	ProfilePhotoRef    string   `json:"profile_photo_ref"    validate:"max=500"`
	BackgroundCheckRef string   `json:"background_check_ref" validate:"max=500"`
}

type registerBabysitterRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone"    validate:"omitempty,max=40"`
	babysitterProfileRequest
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateClientProfileRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Phone    string `json:"phone"    validate:"omitempty,max=40"`
	Address  string `json:"address"  validate:"omitempty,max=255"`
	Region   string `json:"region"   validate:"omitempty,max=120"`
	Children int    `json:"children" validate:"gte=0"`
}

type updateBabysitterProfileRequest struct {
	Name  string `json:"name"  validate:"required,max=120"`
	Phone string `json:"phone" validate:"omitempty,max=40"`
	babysitterProfileRequest
}

type createBookingRequest struct {
	BabysitterID string `json:"babysitter_id" validate:"required"`
	Date         string `json:"date"          validate:"required"`
	TimeStart    string `json:"time_start"    validate:"required"`
	TimeEnd      string `json:"time_end"      validate:"required"`
}

// updateStatusRequest leaves the allowed values to the booking service, which
// checks the requester role first.
type updateStatusRequest struct {
	Status string `json:"status"`
}

type searchBabysittersQuery struct {
	Region       string `query:"region"`
	Availability string `query:"availability"`
	Page         int    `query:"page"  validate:"gte=0"`
	Limit        int    `query:"limit" validate:"gte=0"`
}

type listBookingsQuery struct {
	Status string `query:"status"`
	Page   int    `query:"page"  validate:"gte=0"`
	Limit  int    `query:"limit" validate:"gte=0"`
}

// --- Response types ---
// These are owned by the transport layer so the JSON contract does not follow
// internal model changes.

type accountSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type registerResponse struct {
	User accountSummaryResponse `json:"user"`
}

type loginResponse struct {
	Token string                 `json:"token"`
	User  accountSummaryResponse `json:"user"`
	Role  string                 `json:"role"`
}

type profileResponse struct {
	Region             string   `json:"region"`
	HourlyRate         float64  `json:"hourly_rate"`
	AvailableDays      []string `json:"available_days"`
	AvailableFrom      string   `json:"available_from,omitempty"`
	AvailableTo        string   `json:"available_to,omitempty"`
	About              string   `json:"about,omitempty"`
	ProfilePhotoRef    string   `json:"profile_photo_ref,omitempty"`
	BackgroundCheckRef string   `json:"background_check_ref,omitempty"`
}

type accountResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      string           `json:"role"`
	Phone     string           `json:"phone,omitempty"`
	Address   string           `json:"address,omitempty"`
	Region    string           `json:"region,omitempty"`
	Children  int              `json:"children"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Profile   *profileResponse `json:"profile,omitempty"`
}

// babysitterResponse is the public directory entry. It carries no contact data.
type babysitterResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	profileResponse
}

type bookingResponse struct {
	ID           string    `json:"id"`
	ClientID     *string   `json:"client_id"`
	BabysitterID *string   `json:"babysitter_id"`
	Date         string    `json:"date"`
	TimeStart    string    `json:"time_start"`
	TimeEnd      string    `json:"time_end"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type bookingEnvelope struct {
	Booking bookingResponse `json:"booking"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listBookingsResponse struct {
	Data       []bookingResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type bookingEventResponse struct {
	BookingID  string    `json:"booking_id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Reason     string    `json:"reason,omitempty"`
	At         time.Time `json:"at"`
}

type summaryResponse struct {
	AccountsByRole   map[string]int64 `json:"accounts_by_role"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	TotalAccounts    int64            `json:"total_accounts"`
	TotalBookings    int64            `json:"total_bookings"`
}

type babysitterListResponse struct {
	Data       []babysitterResponse `json:"data"`
	Pagination paginationResponse   `json:"pagination"`
}
