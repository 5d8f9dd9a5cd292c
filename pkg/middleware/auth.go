package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"

	"github.com/fkhayef/movienight/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey ContextKey = "user_id"

	// SessionName is the cookie name holding the session
	SessionName = "movienight-session"

	sessionUserID = "user_id"

	// callerSlotKey holds a *int64 that RequestLogger reads after the
	// handler returns
	callerSlotKey ContextKey = "caller_slot"
)

// Session resolves the caller from the session cookie and stores the user ID
// in the request context. Requests without a valid session continue
// anonymously; RequireUser rejects them.
func Session(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				// A cookie signed with a rotated key; treat as logged out.
				slog.Debug("Discarding unreadable session", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if userID, ok := session.Values[sessionUserID].(int64); ok && userID > 0 {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser responds 401 unless an earlier middleware identified the caller
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserID(r.Context()); !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// DevUserHeader allows setting user ID via X-Dev-User-ID header (DEV ONLY)
// This makes it easy to test as different users without logging in
func DevUserHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-Dev-User-ID")
		if userIDStr != "" {
			if userID, err := strconv.ParseInt(userIDStr, 10, 64); err == nil && userID > 0 {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Login stores the user ID in the session cookie
func Login(store sessions.Store, w http.ResponseWriter, r *http.Request, userID int64) error {
	session, _ := store.Get(r, SessionName)
	session.Values[sessionUserID] = userID
	return session.Save(r, w)
}

// Logout expires the session cookie
func Logout(store sessions.Store, w http.ResponseWriter, r *http.Request) error {
	session, _ := store.Get(r, SessionName)
	delete(session.Values, sessionUserID)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// WithUserID returns a copy of ctx carrying the caller's user ID
func WithUserID(ctx context.Context, userID int64) context.Context {
	if slot, ok := ctx.Value(callerSlotKey).(*int64); ok {
		*slot = userID
	}
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
