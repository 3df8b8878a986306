package http

import (
	"context"
	"net/http"

	"github.com/gourav6746-ai/Thulodeal/internal/domain"
)

type sessionKey struct{}

// SessionMiddleware resolves the authenticated shopper from the identity
// headers set by the auth proxy in front of this service and injects an
// explicit Session value into the request context. Requests without
// identity headers pass through unauthenticated; handlers that need a
// session reject them.
//
// Admin rights are derived from the configured allow-list, never from
// anything the client sends.
func SessionMiddleware(adminEmails map[string]bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-Id")
			email := r.Header.Get("X-User-Email")

			if userID != "" {
				session := domain.Session{
					UserID:  userID,
					Email:   email,
					IsAdmin: adminEmails[email],
				}
				r = r.WithContext(context.WithValue(r.Context(), sessionKey{}, session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards the admin mutation surface.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
			return
		}
		if !session.IsAdmin {
			respondError(w, http.StatusForbidden, "permission_denied", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFromContext(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(domain.Session)
	return session, ok
}
