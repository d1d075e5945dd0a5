package controllers

import (
	"net/http"

	"github.com/lumenline/quotedesk/internal/backend"
	"github.com/lumenline/quotedesk/internal/session"
)

// requireSession returns the session seeded by the auth middleware. Routes
// using it are always mounted behind that middleware, so a missing session
// is a wiring bug surfaced as nil.
func requireSession(r *http.Request) *session.Session {
	return session.FromContext(r.Context())
}

func identityFrom(r *http.Request) *backend.Identity {
	return requireSession(r).Identity()
}
