package client

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionState is one of Unresolved, Authenticated or Anonymous.
type SessionState int

const (
	Unresolved SessionState = iota
	Authenticated
	Anonymous
)

func (s SessionState) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unresolved"
	}
}

// sessionClaims mirrors the server's token payload. The subject is the account id.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Session tracks who the client is. It starts Unresolved and must be resolved
// once, from the TokenStore, before any protected call.
type Session struct {
	store TokenStore
	now   func() time.Time

	once sync.Once
	mu   sync.RWMutex

	state     SessionState
	token     string
	role      string
	accountID string
	expiresAt time.Time
}

func NewSession(store TokenStore) *Session {
	return &Session{store: store, now: time.Now}
}

// Resolve reads the stored token and settles the session state. Only the first
// call does any work. A missing, undecodable or expired token leaves the
// session Anonymous and is removed from the store.
func (s *Session) Resolve() error {
	var err error
	s.once.Do(func() { err = s.resolve() })
	return err
}

func (s *Session) resolve() error {
	token, loadErr := s.store.Load()

	s.mu.Lock()
	defer s.mu.Unlock()

	if loadErr == nil && token != "" {
		if claims, err := decodeClaims(token); err == nil && !s.expired(claims) {
			s.setAuthenticated(token, claims)
			return nil
		}
	}

	s.state = Anonymous
	if token != "" || loadErr != nil {
		return s.store.Delete()
	}
	return nil
}

// State returns the current state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Role returns the role of an authenticated session, or "".
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// AccountID returns the account id of an authenticated session, or "".
func (s *Session) AccountID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountID
}

// Token returns the bearer token for a protected call.
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.state {
	case Unresolved:
		return "", ErrSessionUnresolved
	case Anonymous:
		return "", ErrNotAuthenticated
	}
	if !s.now().Before(s.expiresAt) {
		return "", ErrNotAuthenticated
	}
	return s.token, nil
}

// Authenticate stores a freshly issued token and switches to Authenticated.
func (s *Session) Authenticate(token string) error {
	claims, err := decodeClaims(token)
	if err != nil {
		return err
	}
	if err := s.store.Save(token); err != nil {
		return err
	}

	// a login settles the session even if Resolve never ran
	s.once.Do(func() {})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setAuthenticated(token, claims)
	return nil
}

// Logout forgets the token locally. The server keeps no sessions to revoke.
func (s *Session) Logout() error {
	s.once.Do(func() {})

	s.mu.Lock()
	s.state = Anonymous
	s.token, s.role, s.accountID = "", "", ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	return s.store.Delete()
}

func (s *Session) setAuthenticated(token string, claims *sessionClaims) {
	s.state = Authenticated
	s.token = token
	s.role = claims.Role
	s.accountID = claims.Subject
	s.expiresAt = claims.ExpiresAt.Time
}

func (s *Session) expired(claims *sessionClaims) bool {
	return !s.now().Before(claims.ExpiresAt.Time)
}

// decodeClaims reads the payload without checking the signature; the server
// verifies every token it receives.
func decodeClaims(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.Role == "" || claims.ExpiresAt == nil {
		return nil, errors.New("client: token without subject, role or expiry")
	}
	return claims, nil
}
