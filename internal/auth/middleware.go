package auth

import (
	"context"
	"fmt"
	"net/http"

	"ms-booking/internal/logger"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Middleware rejects the request with 401 unless it carries a bearer token that verifies and is
// held by an active session. The session's user id is put into the request context.
func Middleware(verifier TokenVerifier, sessions SessionStore, cache *SessionCache, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			userID, err := verifier.Verify(ctx, rawToken)
			if err != nil {
				log.LogSecurity("INVALID_TOKEN", err.Error())
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			cached, hit, err := cache.Get(ctx, rawToken)
			if err != nil {
				log.Warn("AUTH", fmt.Sprintf("Session cache unavailable: %v", err))
			}
			if !hit || cached != userID {
				session, err := sessions.FindSessionByToken(ctx, rawToken)
				if err != nil {
					log.Error("AUTH", fmt.Sprintf("Failed to load session: %v", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				if session == nil || session.UserID != userID {
					log.LogSecurity("NO_SESSION", fmt.Sprintf("no active session for user %d", userID))
					http.Error(w, "no active session", http.StatusUnauthorized)
					return
				}
				if err := cache.Set(ctx, rawToken, userID); err != nil {
					log.Warn("AUTH", fmt.Sprintf("Failed to cache session: %v", err))
				}
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(ctx, userID)))
		})
	}
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Helper to extract user ID in handlers
func UserIDFromContext(ctx context.Context) (int64, bool) {
	uid, ok := ctx.Value(userIDKey).(int64)
	return uid, ok
}
