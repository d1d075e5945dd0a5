package controllers

import (
	"net/http"

	"github.com/lumenline/quotedesk/api/responses"
	"github.com/lumenline/quotedesk/api/validators"
	"github.com/lumenline/quotedesk/internal/backend"
	"github.com/lumenline/quotedesk/internal/catalog"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
	"github.com/lumenline/quotedesk/pkg/logger"
)

// CatalogList pages the product catalog, optionally narrowed by ?q=.
func CatalogList(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
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

type catalogItemRequest struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"min=0"`
	Category    string  `json:"category"`
	Wattage     string  `json:"wattage"`
	CCT         string  `json:"cct"`
	IPRating    string  `json:"ip_rating"`
	FixtureType string  `json:"fixture_type"`
	ImageURL    string  `json:"image_url"`
}

// CatalogSave creates or updates a catalog item.
func CatalogSave(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var req catalogItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := backend.CatalogItem{
			ID:          req.ID,
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			Wattage:     req.Wattage,
			CCT:         req.CCT,
			IPRating:    req.IPRating,
			FixtureType: req.FixtureType,
			ImageURL:    req.ImageURL,
		}
		saved, err := svc.Save(r.Context(), identityFrom(r), item)
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

// CatalogReindex rebuilds the semantic search index.
func CatalogReindex(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		if err := svc.ReindexEmbeddings(r.Context(), identityFrom(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reindexed"})
	}
}

// CatalogAttachImage uploads a product photo for an item.
func CatalogAttachImage(svc *catalog.Service, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		itemID, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, header, err := openUpload(r, "file", maxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		url, err := svc.AttachImage(r.Context(), identityFrom(r), itemID, header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"image_url": url})
	}
}

// CatalogVisualSearch matches catalog items against an uploaded photo.
func CatalogVisualSearch(svc *catalog.Service, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		file, header, err := openUpload(r, "file", maxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		matches, err := svc.VisualSearch(r.Context(), identityFrom(r), header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, matches)
	}
}
