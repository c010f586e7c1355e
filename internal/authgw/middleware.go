package authgw

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const userContextKey = contextKey("authgw-user")

// Verifier lets handlers and tests swap the HTTP client for a fake.
type Verifier interface {
	Verify(ctx context.Context, token string) (User, error)
}

type Middleware struct {
	verifier Verifier
}

func NewMiddleware(verifier Verifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// Wrap authenticates the request before any handler runs, so a rejected
// token causes no side effects downstream.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, ErrGatewayTimeout):
				writeError(w, http.StatusGatewayTimeout, "authentication service timed out")
			case errors.Is(err, ErrGatewayUnavailable):
				writeError(w, http.StatusServiceUnavailable, "authentication service unavailable")
			default:
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func FromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userContextKey).(User)
	return user, ok
}

// WithUser is a test helper for handlers that read the caller identity.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
