package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/keyforge/keyforge-be/internal/session"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	// UserClaimsKey is the context key for user claims.
	UserClaimsKey = contextKey("userClaims")
	// SessionIDKey is the context key for the server-side session id.
	SessionIDKey = contextKey("sessionID")
)

// SessionCookie is the name of the cookie carrying the server-side session id.
const SessionCookie = "session_id"

// ClaimsFromContext returns the authenticated user's claims, if present.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}

// SessionIDFromContext returns the current session id, if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok
}

// RequireAuth protects routes behind a valid identity token. The session id
// cookie, when present, is passed down via context for the master password
// layer; its absence is not an authentication failure.
func (m *Manager) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try to get the token from the Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, "Bearer ")
				if len(parts) == 2 {
					tokenStr = parts[1]
				}
			}

			// 2. If not in header, fall back to the cookie
			if tokenStr == "" {
				cookie, err := r.Cookie("token")
				if err != nil {
					http.Error(w, "Missing auth token", http.StatusUnauthorized)
					return
				}
				tokenStr = cookie.Value
			}

			claims, err := m.ValidateJWT(tokenStr)
			if err != nil {
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				ctx = context.WithValue(ctx, SessionIDKey, cookie.Value)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMasterPassword rejects requests whose session has not verified the
// master password. It must be mounted after RequireAuth: verification is a
// second factor checked on every request, not once per login.
func RequireMasterPassword(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, "Missing auth token", http.StatusUnauthorized)
				return
			}

			sessionID, ok := SessionIDFromContext(r.Context())
			if !ok {
				http.Error(w, "Master password verification required", http.StatusForbidden)
				return
			}

			sess, err := sessions.Get(sessionID)
			if err != nil || sess.UserID != claims.UserID {
				http.Error(w, "Master password verification required", http.StatusForbidden)
				return
			}
			if !sess.MasterVerified {
				log.Debug().Str("user_id", claims.UserID).Msg("Vault access rejected: session not verified")
				http.Error(w, "Master password verification required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
