package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/atelierhq/studio-backend/pkg/config"
	redisclient "github.com/atelierhq/studio-backend/pkg/redis"
)

var ErrInvalidSession = errors.New("invalid session")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager issues and verifies admin session tokens. Tokens are HS256 JWTs
// whose jti must still exist in Redis, so revocation takes effect
// immediately regardless of the JWT expiry.
type Manager struct {
	store  sessionStore
	keyer  sessionKeyer
	secret []byte
	issuer string
	ttl    time.Duration
}

// Verifier exposes the read-only surface needed by middleware.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.AdminConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	return &Manager{
		store:  client,
		keyer:  client,
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		ttl:    ttl,
	}, nil
}

// Issue creates a session, stores its id in Redis, and returns the signed token.
func (m *Manager) Issue(ctx context.Context) (string, error) {
	sessionID := uuid.NewString()
	now := time.Now()

	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}

	if err := m.store.Set(ctx, m.keyer.SessionKey(sessionID), "1", m.ttl); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return token, nil
}

// Verify checks signature, issuer, expiry, and that the session has not been
// revoked.
func (m *Manager) Verify(ctx context.Context, token string) error {
	sessionID, err := m.parseSessionID(token)
	if err != nil {
		return err
	}

	if _, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID)); err != nil {
		if redisclient.IsMissing(err) {
			return ErrInvalidSession
		}
		return err
	}
	return nil
}

// Revoke deletes the session behind the token. Unparsable tokens are a no-op.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	sessionID, err := m.parseSessionID(token)
	if err != nil {
		return nil
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}

func (m *Manager) parseSessionID(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrInvalidSession
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if m.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(m.issuer))
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, parserOpts...)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return "", ErrInvalidSession
	}
	return claims.ID, nil
}
