package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atelierhq/studio-backend/pkg/auth/session"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

type stubVerifier struct {
	err error
}

func (s *stubVerifier) Verify(_ context.Context, _ string) error {
	return s.err
}

func adminAuthHandler(verifier session.Verifier) http.Handler {
	logg := logger.New(logger.Options{Output: io.Discard})
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return AdminAuth(verifier, logg)(next)
}

func TestAdminAuthAllowsLiveSession(t *testing.T) {
	handler := adminAuthHandler(&stubVerifier{})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	handler := adminAuthHandler(&stubVerifier{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminAuthRejectsRevokedSession(t *testing.T) {
	handler := adminAuthHandler(&stubVerifier{err: session.ErrInvalidSession})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminAuthSurfacesStoreFailures(t *testing.T) {
	handler := adminAuthHandler(&stubVerifier{err: errors.New("redis down")})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
