package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/heartmarshall/meetings-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// Auth attaches the caller's email to the request context when a valid
// bearer token is present. Anonymous requests pass through and are rejected
// later by the handlers that need an owner. A bad token is always a 401.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := bearerToken(r.Header.Get("Authorization"))
			if !present {
				next.ServeHTTP(w, r)
				return
			}

			email, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid or expired token")
				return
			}

			if n := notesFrom(r.Context()); n != nil {
				n.owner = email
			}
			next.ServeHTTP(w, r.WithContext(ctxutil.WithUserEmail(r.Context(), email)))
		})
	}
}

// bearerToken parses an Authorization header value. Other schemes and an
// empty credential report absent.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
