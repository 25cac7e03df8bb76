package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

const minPasswordLen = 6

// fieldValidator checks single values with the same rules the HTTP layer
// applies through tags, for callers that never pass through a handler.
var fieldValidator = validator.New()

func validateRegister(in ports.RegisterInput) error {
	if !in.Role.Valid() {
		return domain.Validation("role must be one of: client babysitter admin")
	}
	if in.Name == "" {
		return domain.Validation("name is required")
	}
	if err := fieldValidator.Var(in.Email, "required,email"); err != nil {
		return domain.Validation("email must be a valid email")
	}
	if len(in.Password) < minPasswordLen {
		return domain.Validation("password must be at least %d characters", minPasswordLen)
	}
	if in.Children < 0 {
		return domain.Validation("children must not be negative")
	}
	if in.Role == domain.RoleBabysitter {
		if in.Babysitter == nil {
			return domain.Validation("babysitter profile is required")
		}
		return validateProfile(*in.Babysitter)
	}
	return nil
}

func validateProfile(p ports.BabysitterProfileInput) error {
	if strings.TrimSpace(p.Region) == "" {
		return domain.Validation("region is required")
	}
	if p.HourlyRate < 0 {
		return domain.Validation("hourly_rate must not be negative")
	}
	for _, d := range p.AvailableDays {
		if _, ok := domain.NormalizeWeekday(d); !ok {
			return domain.Validation("available_days contains an unknown weekday %q", d)
		}
	}
	if p.AvailableFrom == "" && p.AvailableTo == "" {
		return nil
	}
	from, err := domain.ParseClock(p.AvailableFrom)
	if err != nil {
		return domain.Validation("available_from must be HH:MM")
	}
	to, err := domain.ParseClock(p.AvailableTo)
	if err != nil {
		return domain.Validation("available_to must be HH:MM")
	}
	if from >= to {
		return domain.Validation("available_from must be before available_to")
	}
	return nil
}

// newProfile builds a normalized profile from validated input.
func newProfile(accountID string, p ports.BabysitterProfileInput) *domain.BabysitterProfile {
	days := make([]string, 0, len(p.AvailableDays))
	seen := make(map[string]struct{}, len(p.AvailableDays))
	for _, d := range p.AvailableDays {
		day, _ := domain.NormalizeWeekday(d)
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	return &domain.BabysitterProfile{
		AccountID:          accountID,
		Region:             strings.TrimSpace(p.Region),
		HourlyRate:         p.HourlyRate,
		AvailableDays:      days,
		AvailableFrom:      normalizeClock(p.AvailableFrom),
		AvailableTo:        normalizeClock(p.AvailableTo),
		About:              strings.TrimSpace(p.About),
		ProfilePhotoRef:    strings.TrimSpace(p.ProfilePhotoRef),
		BackgroundCheckRef: strings.TrimSpace(p.BackgroundCheckRef),
	}
}

// normalizeClock renders a parseable HH:MM value with two-digit hours.
func normalizeClock(s string) string {
	m, err := domain.ParseClock(s)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
