package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/atelierhq/studio-backend/api/responses"
	"github.com/atelierhq/studio-backend/pkg/auth/session"
	pkgerrors "github.com/atelierhq/studio-backend/pkg/errors"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

// AdminAuth guards the mutating admin routes: it requires a bearer token
// whose session is still live in the session store.
func AdminAuth(verifier session.Verifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			if err := verifier.Verify(r.Context(), token); err != nil {
				if errors.Is(err, session.ErrInvalidSession) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validating session"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
