package middleware

import (
	"context"
	"net/http"
	"strings"

	"eval-admin/internal/auth"
)

type contextKey string

const (
	ActorIDKey    contextKey = "actor_id"
	ActorEmailKey contextKey = "actor_email"
)

// AuthMiddleware validates JWT tokens
type AuthMiddleware struct {
	authService *auth.Service
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate validates the bearer token and puts the acting employee's id
// and email on the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondWithError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := m.authService.ValidateToken(parts[1])
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ActorIDKey, claims.EmployeeID)
		ctx = context.WithValue(ctx, ActorEmailKey, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActorID retrieves the acting employee's id from the request context
func GetActorID(r *http.Request) (string, bool) {
	actorID, ok := r.Context().Value(ActorIDKey).(string)
	return actorID, ok
}

// GetActorEmail retrieves the acting employee's email from the request context
func GetActorEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(ActorEmailKey).(string)
	return email, ok
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
