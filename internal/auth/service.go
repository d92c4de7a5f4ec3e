// Package auth is the admin login gate. There is a single operator account
// configured as an argon2id hash; a successful login issues a revocable
// session token that the middleware checks on every mutating route.
package auth

import (
	"context"
	"fmt"

	"github.com/atelierhq/studio-backend/pkg/errors"
	"github.com/atelierhq/studio-backend/pkg/logger"
	"github.com/atelierhq/studio-backend/pkg/security"
)

// SessionIssuer mints and revokes session tokens; the session manager
// satisfies it.
type SessionIssuer interface {
	Issue(ctx context.Context) (string, error)
	Revoke(ctx context.Context, token string) error
}

type Service struct {
	passwordHash string
	sessions     SessionIssuer
	logg         *logger.Logger
}

func NewService(passwordHash string, sessions SessionIssuer, logg *logger.Logger) (*Service, error) {
	if passwordHash == "" {
		return nil, fmt.Errorf("auth service: password hash is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("auth service: session issuer is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("auth service: logger is required")
	}
	return &Service{passwordHash: passwordHash, sessions: sessions, logg: logg}, nil
}

// Login verifies the operator password and returns a fresh session token.
// A wrong password and a malformed stored hash both come back as
// unauthorized; the latter additionally logs, since it means the deployment
// is misconfigured.
func (s *Service) Login(ctx context.Context, password string) (string, error) {
	ok, err := security.VerifyPassword(password, s.passwordHash)
	if err != nil {
		s.logg.Error(ctx, "admin password hash is malformed", err)
		return "", errors.New(errors.CodeUnauthorized, "invalid credentials")
	}
	if !ok {
		s.logg.Warn(ctx, "admin login rejected")
		return "", errors.New(errors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.sessions.Issue(ctx)
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "issuing session")
	}

	s.logg.Info(ctx, "admin login succeeded")
	return token, nil
}

// Logout revokes the session behind the token; unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "revoking session")
	}
	return nil
}
