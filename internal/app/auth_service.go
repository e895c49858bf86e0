// Package app holds the application services: logbook use cases, the
// dashboard presenter, reports, preferences and owner authentication.
package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"diabetracker/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrOwnerExists indicates that setup was attempted after the owner was created.
	ErrOwnerExists = errors.New("owner already exists")
	// ErrNotOwner indicates an SSO identity that is not the configured owner.
	ErrNotOwner = errors.New("identity is not the tracker owner")
)

const defaultSessionTTL = 24 * time.Hour

// AuthConfig configures AuthService.
type AuthConfig struct {
	SessionTTL time.Duration
	// OwnerEmail is the only SSO identity accepted. Empty disables SSO logins.
	OwnerEmail string
	BcryptCost int
}

// AuthService handles owner setup, login and session management.
type AuthService struct {
	owners   domain.OwnerRepository
	sessions domain.SessionRepository
	cfg      AuthConfig
}

// NewAuthService creates a new authentication service.
func NewAuthService(owners domain.OwnerRepository, sessions domain.SessionRepository, cfg AuthConfig) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{owners: owners, sessions: sessions, cfg: cfg}
}

// SessionTTL returns how long new sessions stay valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.cfg.SessionTTL
}

// SSOEnabled reports whether SSO logins can resolve to the owner.
func (s *AuthService) SSOEnabled() bool {
	return s.cfg.OwnerEmail != ""
}

// NeedsSetup reports whether the owner account has not been created yet.
func (s *AuthService) NeedsSetup(ctx context.Context) (bool, error) {
	owner, err := s.owners.GetOwner(ctx)
	if err != nil {
		return false, err
	}
	return owner == nil, nil
}

// Setup creates the owner account. It fails once an owner exists.
func (s *AuthService) Setup(ctx context.Context, username, password string) (*domain.Owner, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return nil, fmt.Errorf("%w: username required and password must be at least 8 characters", ErrValidation)
	}
	existing, err := s.owners.GetOwner(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrOwnerExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return s.owners.CreateOwner(ctx, username, string(hash))
}

// Login authenticates the owner and creates a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	owner, err := s.owners.GetOwner(ctx)
	if err != nil || owner == nil || owner.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if !ConstantTimeCompare(owner.Username, username) {
		return "", ErrInvalidCredentials
	}
	if err = bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.newSession(ctx, owner.ID)
}

// LoginSSO creates a session for an identity verified by the SSO provider.
// The owner account is provisioned on first SSO login.
func (s *AuthService) LoginSSO(ctx context.Context, email string) (string, error) {
	if s.cfg.OwnerEmail == "" || !strings.EqualFold(email, s.cfg.OwnerEmail) {
		return "", ErrNotOwner
	}
	owner, err := s.owners.GetOwner(ctx)
	if err != nil {
		return "", err
	}
	if owner == nil {
		owner, err = s.owners.CreateOwner(ctx, email, "")
		if err != nil {
			return "", err
		}
	}
	return s.newSession(ctx, owner.ID)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// ValidateSession returns the owner for a live session token.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.Owner, error) {
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.DeleteSession(ctx, token)
		return nil, ErrSessionExpired
	}

	owner, err := s.owners.GetOwner(ctx)
	if err != nil {
		return nil, err
	}
	if owner == nil || owner.ID != session.OwnerID {
		return nil, ErrSessionNotFound
	}
	return owner, nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpiredSessions(ctx, time.Now())
}

func (s *AuthService) newSession(ctx context.Context, ownerID int64) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.CreateSession(ctx, ownerID, token, time.Now().Add(s.cfg.SessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
