package domain

// Identity is what a verified session token proves about its bearer.
type Identity struct {
	AccountID string
	Role      Role
}
