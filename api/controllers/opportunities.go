package controllers

import (
	"net/http"

	"github.com/lumenline/quotedesk/api/responses"
	"github.com/lumenline/quotedesk/api/validators"
	"github.com/lumenline/quotedesk/internal/backend"
	"github.com/lumenline/quotedesk/internal/opportunity"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
	"github.com/lumenline/quotedesk/pkg/logger"
)

func OpportunityList(svc *opportunity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
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

func OpportunityGet(svc *opportunity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		opportunityID, err := validators.ParsePathID(r, "opportunityId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		opp, err := svc.Get(r.Context(), identityFrom(r), opportunityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, opp)
	}
}

type opportunityRequest struct {
	ID             int64   `json:"id"`
	ClientName     string  `json:"client_name" validate:"required"`
	ProjectName    string  `json:"project_name"`
	ExpectedRFP    string  `json:"expected_rfp_date"`
	EstimatedValue float64 `json:"estimated_value" validate:"min=0"`
	Notes          string  `json:"notes"`
	Status         string  `json:"status"`
}

func OpportunitySave(svc *opportunity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		var req opportunityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		opp := backend.Opportunity{
			ID:             req.ID,
			ClientName:     req.ClientName,
			ProjectName:    req.ProjectName,
			ExpectedRFP:    req.ExpectedRFP,
			EstimatedValue: req.EstimatedValue,
			Notes:          req.Notes,
			Status:         req.Status,
		}
		saved, err := svc.Save(r.Context(), identityFrom(r), opp)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if req.ID == 0 {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, saved)
	}
}
