package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sitterhub/marketplace/internal/api/metrics"
	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

// dummyHash is compared against when the email is unknown so that both
// failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("sitterhub-dummy-password"), bcrypt.DefaultCost)
	return h
})

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.AccountRepository
	tokens   *TokenIssuer
	limiter  ports.LoginLimiter
	log      zerolog.Logger
	hashCost int
}

// NewAuthService wires the service. A nil limiter disables login throttling.
func NewAuthService(repo ports.AccountRepository, tokens *TokenIssuer, limiter ports.LoginLimiter, log zerolog.Logger) *AuthService {
	if limiter == nil {
		limiter = nopLimiter{}
	}
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		limiter:  limiter,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		Region:       strings.TrimSpace(in.Region),
		Children:     in.Children,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Role == domain.RoleBabysitter {
		account.Profile = newProfile(account.ID, *in.Babysitter)
		account.Region = account.Profile.Region
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(created.Role)).Inc()
	s.log.Info().Str("account_id", created.ID).Str("role", string(created.Role)).Msg("account registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string, allowed ...domain.Role) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.limiter.Allow(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login limiter check failed, allowing attempt")
	} else if !ok {
		metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
		return nil, domain.ErrTooManyAttempts
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, s.fail(ctx, email)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, s.fail(ctx, email)
	}
	if len(allowed) > 0 && !slices.Contains(allowed, account.Role) {
		return nil, s.fail(ctx, email)
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login attempts")
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &ports.LoginResult{Token: token, Account: account.Summary(), Role: account.Role}, nil
}

// EnsureAdmin creates the configured administrator if no account uses its email yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	existing, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			return false, domain.ErrEmailTaken
		}
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	_, err = s.Register(ctx, ports.RegisterInput{
		Role:     domain.RoleAdmin,
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) fail(ctx context.Context, email string) error {
	metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	s.log.Info().Str("email", email).Msg("login failed")
	return domain.ErrInvalidCredentials
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type nopLimiter struct{}

func (nopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
func (nopLimiter) Reset(context.Context, string) error         { return nil }
