package middleware

import (
	"context"
	"net/http"

	"github.com/healthhub-app/healthhub/backend/internal/auth"
)

// RequireAuth is middleware that validates the session cookie and injects
// the user_id and username into the request context.
func RequireAuth(sessions auth.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			sess, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil || sess == nil || !sess.LoggedIn() {
				http.Error(w, `{"error":"session expired"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", sess.UserID)
			ctx = context.WithValue(ctx, "username", sess.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
