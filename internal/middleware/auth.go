package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/videotube/backend/internal/logging"
)

type callerKey struct{}

// TokenValidator resolves a bearer access token to a user identifier.
type TokenValidator interface {
	Validate(ctx context.Context, accessToken string) (string, error)
}

// CallerID returns the authenticated caller attached by Authenticate, or ""
// when the request carried no valid session.
func CallerID(ctx context.Context) string {
	if id, ok := ctx.Value(callerKey{}).(string); ok {
		return id
	}
	return ""
}

// WithCallerID attaches a caller identity to the context. Exposed for handler
// tests that bypass the middleware.
func WithCallerID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, callerKey{}, userID)
}

// Authenticate resolves the Authorization bearer token into a caller identity
// on the request context. Requests without a valid session are rejected
// before they reach a handler.
func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			userID, err := validator.Validate(ctx, token)
			if err != nil {
				logging.FromContext(ctx).Warn("rejected bearer token", "error", err)
				unauthorized(w, "invalid or expired session")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCallerID(ctx, userID)))
		})
	}
}

// AuthenticateOptional attaches the caller identity when the request carries
// a valid bearer token and lets the request through anonymously otherwise.
// Public reads use it so a signed-in caller is recognized without making the
// endpoint private.
func AuthenticateOptional(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := bearerToken(r); token != "" {
				userID, err := validator.Validate(ctx, token)
				if err == nil {
					ctx = WithCallerID(ctx, userID)
				} else {
					logging.FromContext(ctx).Warn("ignoring bearer token on public route", "error", err)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized writes the same envelope shape the handlers use, so rejected
// requests look uniform regardless of where they were stopped.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": http.StatusUnauthorized,
		"error":  message,
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
