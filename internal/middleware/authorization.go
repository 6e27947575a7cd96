package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// LoginPath is where anonymous callers are sent
const LoginPath = "/login/"

// RequireAuthenticated redirects anonymous callers to the login page
func RequireAuthenticated(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetIdentity(r.Context()).IsAuthenticated() {
				logger.Debug("Anonymous access redirected", zap.String("path", r.URL.Path))
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff redirects anonymous callers and rejects customers with 403
func RequireStaff(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if !identity.IsAuthenticated() {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			if !identity.IsStaff() {
				logger.Warn("Non-staff user attempted to access staff endpoint",
					zap.String("user_id", identity.UserID.String()),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
