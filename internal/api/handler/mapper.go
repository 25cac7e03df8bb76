package handler

import (
	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

// --- Request → Service input ---

func toProfileInput(p babysitterProfileRequest) ports.BabysitterProfileInput {
	return ports.BabysitterProfileInput{
		Region:             p.Region,
		HourlyRate:         p.HourlyRate,
		AvailableDays:      p.AvailableDays,
		AvailableFrom:      p.AvailableFrom,
		AvailableTo:        p.AvailableTo,
		About:              p.About,
		ProfilePhotoRef:    p.ProfilePhotoRef,
		BackgroundCheckRef: p.BackgroundCheckRef,
	}
}

func toClientRegisterInput(req registerClientRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Role:     domain.RoleClient,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		Region:   req.Region,
		Children: req.Children,
	}
}

func toBabysitterRegisterInput(req registerBabysitterRequest) ports.RegisterInput {
	profile := toProfileInput(req.babysitterProfileRequest)
	return ports.RegisterInput{
		Role:       domain.RoleBabysitter,
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Region:     req.Region,
		Babysitter: &profile,
	}
}

// --- Service result → HTTP response ---

func toSummaryResponse(s domain.AccountSummary) accountSummaryResponse {
	return accountSummaryResponse{ID: s.ID, Name: s.Name, Email: s.Email, Role: string(s.Role)}
}

func toProfileResponse(p *domain.BabysitterProfile) profileResponse {
	days := p.AvailableDays
	if days == nil {
		days = []string{}
	}
	return profileResponse{
		Region:             p.Region,
		HourlyRate:         p.HourlyRate,
		AvailableDays:      days,
		AvailableFrom:      p.AvailableFrom,
		AvailableTo:        p.AvailableTo,
		About:              p.About,
		ProfilePhotoRef:    p.ProfilePhotoRef,
		BackgroundCheckRef: p.BackgroundCheckRef,
	}
}

func toAccountResponse(a *domain.Account) accountResponse {
	resp := accountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		Phone:     a.Phone,
		Address:   a.Address,
		Region:    a.Region,
		Children:  a.Children,
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
	}
	if a.Profile != nil {
		p := toProfileResponse(a.Profile)
		resp.Profile = &p
	}
	return resp
}

func toBabysitterResponse(a *domain.Account) babysitterResponse {
	resp := babysitterResponse{ID: a.ID, Name: a.Name}
	if a.Profile != nil {
		resp.profileResponse = toProfileResponse(a.Profile)
		// background checks are not part of the public directory
		resp.BackgroundCheckRef = ""
	} else {
		resp.AvailableDays = []string{}
	}
	return resp
}

func toBabysitterResponses(items []*domain.Account) []babysitterResponse {
	out := make([]babysitterResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toBabysitterResponse(a))
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:           b.ID,
		ClientID:     optional(b.ClientID),
		BabysitterID: optional(b.BabysitterID),
		Date:         b.Date,
		TimeStart:    b.TimeStart,
		TimeEnd:      b.TimeEnd,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt.UTC(),
		UpdatedAt:    b.UpdatedAt.UTC(),
	}
}

func toBookingResponses(items []*domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(items))
	for _, b := range items {
		out = append(out, toBookingResponse(b))
	}
	return out
}

func toPaginationResponse(p ports.Pagination) paginationResponse {
	return paginationResponse{Total: p.Total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages}
}

func toEventResponses(events []domain.BookingEvent) []bookingEventResponse {
	out := make([]bookingEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, bookingEventResponse{
			BookingID:  e.BookingID,
			FromStatus: string(e.FromStatus),
			ToStatus:   string(e.ToStatus),
			ActorID:    e.ActorID,
			ActorRole:  string(e.ActorRole),
			Reason:     e.Reason,
			At:         e.At.UTC(),
		})
	}
	return out
}

func toSummary(s *ports.AdminSummary) summaryResponse {
	resp := summaryResponse{
		AccountsByRole:   make(map[string]int64, len(s.AccountsByRole)),
		BookingsByStatus: make(map[string]int64, len(s.BookingsByStatus)),
		TotalAccounts:    s.TotalAccounts,
		TotalBookings:    s.TotalBookings,
	}
	for r, n := range s.AccountsByRole {
		resp.AccountsByRole[string(r)] = n
	}
	for st, n := range s.BookingsByStatus {
		resp.BookingsByStatus[string(st)] = n
	}
	return resp
}
