// Package auth establishes who is calling: it drives the OpenID Connect
// login with the identity provider and carries the result in a signed
// session cookie.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"job-finder/internal/domain"
)

var (
	// ErrInvalidSession covers malformed, expired, tampered and revoked tokens.
	ErrInvalidSession = errors.New("invalid session")
)

// Session is an authenticated browser session.
type Session struct {
	ID        string
	Identity  domain.Identity
	ExpiresAt time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Picture    string `json:"picture,omitempty"`
	Profession string `json:"profession,omitempty"`
}

// SessionManager issues and verifies HS256 session tokens.
type SessionManager struct {
	secret  []byte
	ttl     time.Duration
	revoker Revoker
	now     func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration, revoker Revoker) (*SessionManager, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	return &SessionManager{
		secret:  []byte(secret),
		ttl:     ttl,
		revoker: revoker,
		now:     time.Now,
	}, nil
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a new session for identity.
func (m *SessionManager) Issue(identity domain.Identity) (string, *Session, error) {
	if strings.TrimSpace(identity.Subject) == "" {
		return "", nil, fmt.Errorf("identity subject is required")
	}

	now := m.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Identity:  identity,
		ExpiresAt: now.Add(m.ttl),
	}
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   identity.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
		Name:       identity.Name,
		Email:      identity.Email,
		Picture:    identity.Picture,
		Profession: identity.Profession,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}
	return token, sess, nil
}

// ShouldRenew reports whether less than half of the session lifetime is
// left. Active sessions are re-issued so they roll forward.
func (m *SessionManager) ShouldRenew(sess *Session) bool {
	if sess == nil {
		return false
	}
	return m.now().Add(m.ttl / 2).After(sess.ExpiresAt)
}

// Parse verifies token and rejects it once revoked.
func (m *SessionManager) Parse(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject or id", ErrInvalidSession)
	}

	revoked, err := m.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: revoked", ErrInvalidSession)
	}

	return &Session{
		ID: claims.ID,
		Identity: domain.Identity{
			Subject:    claims.Subject,
			Name:       claims.Name,
			Email:      claims.Email,
			Picture:    claims.Picture,
			Profession: claims.Profession,
		},
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke invalidates sess until it would have expired anyway.
func (m *SessionManager) Revoke(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	return m.revoker.Revoke(ctx, sess.ID, sess.ExpiresAt)
}
