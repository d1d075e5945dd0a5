package controllers

import (
	"net/http"
	"strconv"

	"github.com/lumenline/quotedesk/api/responses"
	"github.com/lumenline/quotedesk/api/validators"
	"github.com/lumenline/quotedesk/internal/editor"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
	"github.com/lumenline/quotedesk/pkg/logger"
)

type editorHandler func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64)

// withEditor handles the boilerplate shared by every editor route.
func withEditor(svc *editor.Service, logg *logger.Logger, fn editorHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "editor service unavailable"))
			return
		}
		quotationID, err := validators.ParsePathID(r, "quotationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fn(w, r, svc, requireSession(r).ID, quotationID)
	}
}

func EditorOpen(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		view, err := svc.Open(r.Context(), identityFrom(r), sessionID, quotationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

func EditorGet(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		view, err := svc.Get(r.Context(), identityFrom(r), sessionID, quotationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

func EditorClose(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		svc.Close(r.Context(), sessionID, quotationID)
		responses.WriteSuccess(w, map[string]string{"status": "closed"})
	})
}

type switchTabRequest struct {
	Tab string `json:"tab" validate:"required"`
}

func EditorSwitchTab(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		var req switchTabRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tab, err := editor.ParseTab(req.Tab)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SwitchTab(r.Context(), identityFrom(r), sessionID, quotationID, tab)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

type updateSpecRequest struct {
	Index int    `json:"index"`
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

func EditorUpdateSpec(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		var req updateSpecRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.UpdateSpec(r.Context(), sessionID, quotationID, req.Index, req.Field, req.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

type clientNameRequest struct {
	ClientName string `json:"client_name" validate:"required"`
}

func EditorSetClientName(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		var req clientNameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetClientName(r.Context(), sessionID, quotationID, req.ClientName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

type quantityRequest struct {
	Index    int   `json:"index"`
	Quantity int64 `json:"quantity"`
}

func EditorSetQuantity(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		var req quantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetQuantity(r.Context(), sessionID, quotationID, req.Index, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

type unitPriceRequest struct {
	Index     int     `json:"index"`
	UnitPrice float64 `json:"unit_price"`
}

func EditorSetUnitPrice(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		var req unitPriceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetUnitPrice(r.Context(), sessionID, quotationID, req.Index, req.UnitPrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

type selectAlternativeRequest struct {
	LineIndex        int `json:"line_index"`
	AlternativeIndex int `json:"alternative_index"`
}

func EditorSelectAlternative(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		var req selectAlternativeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SelectAlternative(r.Context(), sessionID, quotationID, req.LineIndex, req.AlternativeIndex)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

type marginRequest struct {
	MarginPct float64 `json:"margin_pct"`
}

func EditorApplyMargin(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		var req marginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ApplyGlobalMargin(r.Context(), sessionID, quotationID, req.MarginPct)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

func EditorRematch(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		view, err := svc.Rematch(r.Context(), identityFrom(r), sessionID, quotationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

func EditorSavePricing(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		view, err := svc.SavePricing(r.Context(), identityFrom(r), sessionID, quotationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func EditorSetStatus(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		var req statusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetStatus(r.Context(), identityFrom(r), sessionID, quotationID, req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

func EditorFinalize(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		view, err := svc.Finalize(r.Context(), identityFrom(r), sessionID, quotationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

type sendRequest struct {
	Recipient string `json:"recipient" validate:"required"`
}

func EditorSend(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		var req sendRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Send(r.Context(), identityFrom(r), sessionID, quotationID, req.Recipient)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

func EditorDownload(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		payload, contentType, err := svc.Download(r.Context(), identityFrom(r), quotationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `attachment; filename="quotation-`+strconv.FormatInt(quotationID, 10)+`.pdf"`)
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
	})
}

// EditorROI answers the energy estimator from query parameters so the
// panel can refresh without mutating editing state.
func EditorROI(svc *editor.Service, logg *logger.Logger) http.HandlerFunc {
	return withEditor(svc, logg, func(w http.ResponseWriter, r *http.Request, svc *editor.Service, sessionID string, quotationID int64) {
		assumptions, err := parseAssumptions(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		analysis, err := svc.ROI(r.Context(), sessionID, quotationID, assumptions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, analysis)
	})
}

func parseAssumptions(r *http.Request) (editor.Assumptions, error) {
	var a editor.Assumptions
	read := func(key string, dest *float64) error {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			return nil
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a non-negative number").WithDetails(map[string]any{"field": key})
		}
		*dest = value
		return nil
	}
	if err := read("hours_per_day", &a.HoursPerDay); err != nil {
		return a, err
	}
	if err := read("days_per_year", &a.DaysPerYear); err != nil {
		return a, err
	}
	if err := read("electricity_rate", &a.ElectricityRate); err != nil {
		return a, err
	}
	if err := read("baseline_wattage", &a.BaselineWattage); err != nil {
		return a, err
	}
	if err := read("legacy_multiplier", &a.LegacyMultiplier); err != nil {
		return a, err
	}
	return a, nil
}
