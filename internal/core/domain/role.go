package domain

import "strings"

// Role is the closed set of account roles. It is fixed at registration.
type Role string

const (
	RoleClient     Role = "client"
	RoleBabysitter Role = "babysitter"
	RoleAdmin      Role = "admin"
)

// ParseRole accepts only the three known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleClient:
		return RoleClient, true
	case RoleBabysitter:
		return RoleBabysitter, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleBabysitter, RoleAdmin:
		return true
	}
	return false
}

// CanManageBookings reports whether the role may change a booking status.
func (r Role) CanManageBookings() bool {
	switch r {
	case RoleBabysitter, RoleAdmin:
		return true
	case RoleClient:
		return false
	}
	return false
}

func (r Role) String() string { return string(r) }
