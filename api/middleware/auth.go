package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lumenline/quotedesk/api/responses"
	"github.com/lumenline/quotedesk/internal/session"
	"github.com/lumenline/quotedesk/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// SessionLoader resolves a session ID to the authenticated session.
type SessionLoader interface {
	Load(ctx context.Context, sessionID string) (*session.Session, error)
}

// Auth loads the session named by the X-Session-Id header and seeds the
// request context with it. Requests without a live session get a 401
// carrying a login redirect.
func Auth(loader SessionLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))

			sess, err := loader.Load(r.Context(), sessionID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := session.WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithUserEmail(ctx, sess.User.Email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromRequest exposes the raw header for logout handling.
func SessionIDFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(sessionIDHeader))
}
