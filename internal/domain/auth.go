// Package domain contains the logbook entities and the repository ports the
// application depends on.
package domain

import (
	"context"
	"time"
)

// Owner is the single account allowed to use the tracker. Username is the
// login name or, for SSO logins, the identity provider's email.
type Owner struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is an authenticated browser session of the owner.
type Session struct {
	Token     string
	OwnerID   int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// OwnerRepository persists the owner account.
type OwnerRepository interface {
	GetOwner(ctx context.Context) (*Owner, error)
	CreateOwner(ctx context.Context, username, passwordHash string) (*Owner, error)
}

// SessionRepository persists owner sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, ownerID int64, token string, expiresAt time.Time) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
