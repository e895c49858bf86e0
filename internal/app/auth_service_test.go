package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"diabetracker/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func ownerWithPassword(t *testing.T, password string) *domain.Owner {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return &domain.Owner{ID: 1, Username: "testuser", PasswordHash: string(hash)}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	owner := ownerWithPassword(t, "testpass123")

	owners := &mockOwnerRepo{
		getFn: func(ctx context.Context) (*domain.Owner, error) { return owner, nil },
	}
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, ownerID int64, token string, expiresAt time.Time) error {
			if ownerID != 1 {
				t.Errorf("expected ownerID 1, got %d", ownerID)
			}
			if token == "" {
				t.Error("token should not be empty")
			}
			if time.Until(expiresAt) < time.Hour {
				t.Errorf("expiry too soon: %v", expiresAt)
			}
			return nil
		},
	}

	svc := NewAuthService(owners, sessions, AuthConfig{SessionTTL: 2 * time.Hour})
	token, err := svc.Login(ctx, "testuser", "testpass123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token, got empty string")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	owner := ownerWithPassword(t, "correctpass")
	owners := &mockOwnerRepo{
		getFn: func(ctx context.Context) (*domain.Owner, error) { return owner, nil },
	}

	svc := NewAuthService(owners, &mockSessionRepo{}, AuthConfig{})
	_, err := svc.Login(ctx, "testuser", "wrongpass")
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_WrongUsername(t *testing.T) {
	ctx := context.Background()
	owner := ownerWithPassword(t, "testpass123")
	owners := &mockOwnerRepo{
		getFn: func(ctx context.Context) (*domain.Owner, error) { return owner, nil },
	}

	svc := NewAuthService(owners, &mockSessionRepo{}, AuthConfig{})
	_, err := svc.Login(ctx, "someoneelse", "testpass123")
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_NoOwner(t *testing.T) {
	svc := NewAuthService(&mockOwnerRepo{}, &mockSessionRepo{}, AuthConfig{})
	_, err := svc.Login(context.Background(), "testuser", "testpass123")
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ValidateSession_Valid(t *testing.T) {
	ctx := context.Background()
	sessions := &mockSessionRepo{
		getFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{Token: tok, OwnerID: 1, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	owners := &mockOwnerRepo{
		getFn: func(ctx context.Context) (*domain.Owner, error) {
			return &domain.Owner{ID: 1, Username: "testuser"}, nil
		},
	}

	svc := NewAuthService(owners, sessions, AuthConfig{})
	owner, err := svc.ValidateSession(ctx, "validtoken")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if owner.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %s", owner.Username)
	}
}

func TestAuthService_ValidateSession_Missing(t *testing.T) {
	svc := NewAuthService(&mockOwnerRepo{}, &mockSessionRepo{}, AuthConfig{})
	_, err := svc.ValidateSession(context.Background(), "nope")
	if err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthService_ValidateSession_Expired(t *testing.T) {
	ctx := context.Background()
	deleted := false
	sessions := &mockSessionRepo{
		getFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{Token: tok, OwnerID: 1, ExpiresAt: time.Now().Add(-time.Hour)}, nil
		},
		deleteFn: func(ctx context.Context, tok string) error {
			deleted = true
			return nil
		},
	}

	svc := NewAuthService(&mockOwnerRepo{}, sessions, AuthConfig{})
	_, err := svc.ValidateSession(ctx, "expiredtoken")
	if err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected session to be deleted")
	}
}

func TestAuthService_Setup_Success(t *testing.T) {
	ctx := context.Background()
	owners := &mockOwnerRepo{
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.Owner, error) {
			if username != "admin" {
				t.Errorf("expected username 'admin', got %s", username)
			}
			if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("password123")) != nil {
				t.Error("password hash does not match")
			}
			return &domain.Owner{ID: 1, Username: username}, nil
		},
	}

	svc := NewAuthService(owners, &mockSessionRepo{}, AuthConfig{BcryptCost: bcrypt.MinCost})
	owner, err := svc.Setup(ctx, " admin ", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if owner.ID != 1 {
		t.Errorf("expected owner ID 1, got %d", owner.ID)
	}
}

func TestAuthService_Setup_OwnerExists(t *testing.T) {
	owners := &mockOwnerRepo{
		getFn: func(ctx context.Context) (*domain.Owner, error) {
			return &domain.Owner{ID: 1, Username: "admin"}, nil
		},
	}

	svc := NewAuthService(owners, &mockSessionRepo{}, AuthConfig{})
	_, err := svc.Setup(context.Background(), "admin", "password123")
	if err != ErrOwnerExists {
		t.Errorf("expected ErrOwnerExists, got %v", err)
	}
}

func TestAuthService_Setup_ShortPassword(t *testing.T) {
	svc := NewAuthService(&mockOwnerRepo{}, &mockSessionRepo{}, AuthConfig{})
	_, err := svc.Setup(context.Background(), "admin", "short")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_LoginSSO_ProvisionsOwner(t *testing.T) {
	ctx := context.Background()
	created := ""
	owners := &mockOwnerRepo{
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.Owner, error) {
			created = username
			return &domain.Owner{ID: 7, Username: username}, nil
		},
	}
	var sessionOwner int64
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, ownerID int64, token string, expiresAt time.Time) error {
			sessionOwner = ownerID
			return nil
		},
	}

	svc := NewAuthService(owners, sessions, AuthConfig{OwnerEmail: "me@example.com"})
	token, err := svc.LoginSSO(ctx, "Me@Example.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token")
	}
	if created != "Me@Example.com" {
		t.Errorf("expected owner to be provisioned, got %q", created)
	}
	if sessionOwner != 7 {
		t.Errorf("expected session for owner 7, got %d", sessionOwner)
	}
}

func TestAuthService_LoginSSO_RejectsStranger(t *testing.T) {
	svc := NewAuthService(&mockOwnerRepo{}, &mockSessionRepo{}, AuthConfig{OwnerEmail: "me@example.com"})
	if _, err := svc.LoginSSO(context.Background(), "other@example.com"); err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	disabled := NewAuthService(&mockOwnerRepo{}, &mockSessionRepo{}, AuthConfig{})
	if disabled.SSOEnabled() {
		t.Error("SSO should be disabled without an owner email")
	}
	if _, err := disabled.LoginSSO(context.Background(), ""); err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	sessions := &mockSessionRepo{
		deleteExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			if time.Since(now) > time.Minute {
				t.Errorf("unexpected cutoff %v", now)
			}
			return 3, nil
		},
	}
	svc := NewAuthService(&mockOwnerRepo{}, sessions, AuthConfig{})
	n, err := svc.PurgeExpiredSessions(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 purged, got %d", n)
	}
}

func TestAuthService_NeedsSetup(t *testing.T) {
	svc := NewAuthService(&mockOwnerRepo{}, &mockSessionRepo{}, AuthConfig{})
	needs, err := svc.NeedsSetup(context.Background())
	if err != nil || !needs {
		t.Errorf("NeedsSetup() = %v, %v; want true", needs, err)
	}

	owners := &mockOwnerRepo{
		getFn: func(ctx context.Context) (*domain.Owner, error) { return &domain.Owner{ID: 1}, nil },
	}
	svc = NewAuthService(owners, &mockSessionRepo{}, AuthConfig{})
	needs, err = svc.NeedsSetup(context.Background())
	if err != nil || needs {
		t.Errorf("NeedsSetup() = %v, %v; want false", needs, err)
	}
}
