package middleware

import (
	"log/slog"
	"net/http"

	"treehouse/internal/auth"
	"treehouse/internal/httputil"
)

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "jwt"

// Auth verifies the session cookie and places the authenticated user's ID
// into the request context. Requests without a valid token get a 401.
func Auth(tokens auth.TokenManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "missing session token")
				return
			}

			userID, err := tokens.VerifyToken(cookie.Value)
			if err != nil {
				logger.Debug("rejected session token", "error", err, "path", r.URL.Path)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid session token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}
