package domain

import "time"

// Account models a registered identity with exactly one role.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Region       string    `json:"region,omitempty"`
	Children     int       `json:"children,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Profile is set only for babysitter accounts.
	Profile *BabysitterProfile `json:"profile,omitempty"`
}

// BabysitterProfile is owned 1:1 by a babysitter account.
type BabysitterProfile struct {
	AccountID          string   `json:"account_id"`
	Region             string   `json:"region"`
	HourlyRate         float64  `json:"hourly_rate"`
	AvailableDays      []string `json:"available_days"`
	AvailableFrom      string   `json:"available_from"`
	AvailableTo        string   `json:"available_to"`
	About              string   `json:"about,omitempty"`
	ProfilePhotoRef    string   `json:"profile_photo_ref,omitempty"`
	BackgroundCheckRef string   `json:"background_check_ref,omitempty"`
}

// AccountSummary is the public view returned after register and login.
type AccountSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Summary returns the public view of the account.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}
