package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/atelierhq/studio-backend/pkg/config"
	apperrors "github.com/atelierhq/studio-backend/pkg/errors"
	"github.com/atelierhq/studio-backend/pkg/logger"
	"github.com/atelierhq/studio-backend/pkg/security"
)

type stubSessions struct {
	issued   int
	revoked  []string
	issueErr error
}

func (s *stubSessions) Issue(_ context.Context) (string, error) {
	if s.issueErr != nil {
		return "", s.issueErr
	}
	s.issued++
	return "token-1", nil
}

func (s *stubSessions) Revoke(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

func testHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.AdminConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	})
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return hash
}

func newTestService(t *testing.T, hash string, sessions *stubSessions) *Service {
	t.Helper()
	svc, err := NewService(hash, sessions, logger.New(logger.Options{Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestLogin(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, testHash(t, "correct horse"), sessions)

	token, err := svc.Login(context.Background(), "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "token-1" || sessions.issued != 1 {
		t.Fatalf("expected issued session, got token=%q issued=%d", token, sessions.issued)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, testHash(t, "correct horse"), sessions)

	_, err := svc.Login(context.Background(), "wrong")
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if sessions.issued != 0 {
		t.Fatal("no session may be issued on a failed login")
	}
}

func TestLoginRejectsMalformedHash(t *testing.T) {
	svc := newTestService(t, "not-a-hash", &stubSessions{})
	_, err := svc.Login(context.Background(), "anything")
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginSurfacesSessionFailures(t *testing.T) {
	sessions := &stubSessions{issueErr: errors.New("redis down")}
	svc := newTestService(t, testHash(t, "pw"), sessions)

	_, err := svc.Login(context.Background(), "pw")
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, testHash(t, "pw"), sessions)

	if err := svc.Logout(context.Background(), "token-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "token-1" {
		t.Fatalf("session not revoked: %v", sessions.revoked)
	}
}
