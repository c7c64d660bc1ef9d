package member

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"classfit/internal/auth"
	"classfit/internal/logger"
	"classfit/internal/profile"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Onboarder is the reconciler run after every successful
// authentication. It must be idempotent.
type Onboarder interface {
	Ensure(ctx context.Context, identity profile.Identity, form *profile.OnboardingForm) error
}

// Notifier queues the welcome email after signup. A nil notifier
// disables it.
type Notifier interface {
	SendWelcome(ctx context.Context, email, name, tier string) error
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
}

type service struct {
	repo      Repository
	onboarder Onboarder
	notifier  Notifier
	jwtSecret string
}

func NewService(repo Repository, onboarder Onboarder, notifier Notifier, jwtSecret string) Service {
	return &service{
		repo:      repo,
		onboarder: onboarder,
		notifier:  notifier,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.repo.Create(ctx, req.Name, req.Email, passwordHash, "user", req.Onboarding)
	if err != nil {
		return nil, "", "", err
	}

	// Form data wins over the metadata that was just stored; both are
	// the same thing here, but the precedence rule stays in one place.
	if err := s.ensureOnboarded(ctx, user, req.Onboarding); err != nil {
		return nil, "", "", err
	}

	s.sendWelcome(ctx, user, req.Onboarding)

	accessToken, refreshToken, err := auth.GenerateTokens(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	// Accounts that signed up before onboarding existed get their
	// profile row materialized on first login.
	if err := s.ensureOnboarded(ctx, user, nil); err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

// sendWelcome queues the welcome email. Delivery problems are logged,
// never surfaced: a stuck mail queue must not block signup.
func (s *service) sendWelcome(ctx context.Context, user *User, form *profile.OnboardingForm) {
	if s.notifier == nil {
		return
	}

	tier := profile.TierBasic
	if form != nil {
		if t := strings.ToLower(strings.TrimSpace(form.Tier)); profile.ValidTier(t) {
			tier = t
		}
	}

	if err := s.notifier.SendWelcome(ctx, user.Email, user.Name, tier); err != nil {
		logger.Errorf("Failed to queue welcome email for %s: %v", user.Email, err)
	}
}

func (s *service) ensureOnboarded(ctx context.Context, user *User, form *profile.OnboardingForm) error {
	identity := profile.Identity{
		ID:       user.ID,
		Email:    user.Email,
		Metadata: user.Metadata(),
	}
	if err := s.onboarder.Ensure(ctx, identity, form); err != nil {
		return fmt.Errorf("onboarding failed: %w", err)
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	newAccessToken, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	return newAccessToken, user, nil
}
