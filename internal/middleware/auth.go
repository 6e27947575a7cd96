package middleware

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/domain"

	"go.uber.org/zap"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticator resolves a session cookie value to an identity
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

// SessionCookie configures the cookie carrying the session token
type SessionCookie struct {
	Name   string
	Secure bool
}

// Set stores the session token until expires
func (c SessionCookie) Set(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, c.cookie(value, expires))
}

// Clear tells the browser to drop the session cookie
func (c SessionCookie) Clear(w http.ResponseWriter) {
	cookie := c.cookie("", time.Time{})
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

func (c SessionCookie) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionMiddleware attaches the caller's identity to the request context.
// Requests without a valid session continue as anonymous and a stale cookie
// is cleared.
func SessionMiddleware(auth Authenticator, session SessionCookie, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(session.Name)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := auth.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				logger.Debug("Session rejected", zap.Error(err))
				session.Clear(w)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity returns the caller's identity; the zero value is anonymous
func GetIdentity(ctx context.Context) domain.Identity {
	identity, _ := ctx.Value(identityKey).(domain.Identity)
	return identity
}
