package controllers

import (
	"net/http"

	"github.com/lumenline/quotedesk/api/responses"
	"github.com/lumenline/quotedesk/api/validators"
	"github.com/lumenline/quotedesk/internal/activity"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
	"github.com/lumenline/quotedesk/pkg/logger"
)

// ActivityList pages the audit trail, filtered by ?q=.
func ActivityList(svc *activity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activity service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.List(r.Context(), identityFrom(r), r.URL.Query().Get("q"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
