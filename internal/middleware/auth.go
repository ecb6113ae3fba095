package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ppandey/bookshelf/internal/auth"
	"github.com/ppandey/bookshelf/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// callerKey is the context key for storing the authenticated caller.
const callerKey contextKey = "caller"

// CallerFrom extracts the authenticated caller from the context.
// Returns nil for anonymous requests.
func CallerFrom(ctx context.Context) *models.User {
	caller, _ := ctx.Value(callerKey).(*models.User)
	return caller
}

// WithCaller returns a context carrying the given caller. Exposed for
// tests that exercise services without the HTTP stack.
func WithCaller(ctx context.Context, caller *models.User) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// UserLookup resolves token subjects to their current account record, so
// staff status reflects the database rather than a stale claim.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticate resolves an optional bearer token to a caller identity.
// Requests without an Authorization header proceed anonymously; requests
// presenting an invalid or expired token are rejected before any handler
// runs, even on public routes.
func Authenticate(jwtManager *auth.JWTManager, users UserLookup) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			claims, err := jwtManager.ValidateAccess(parts[1])
			if err != nil {
				unauthorized(w, err)
				return
			}

			// The token subject may have been deleted since issuance.
			caller, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
