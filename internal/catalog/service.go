package catalog

import (
	"context"
	"io"
	"strings"

	"github.com/lumenline/quotedesk/internal/backend"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
	"github.com/lumenline/quotedesk/pkg/logger"
	"github.com/lumenline/quotedesk/pkg/pagination"
)

// Backend is the catalog slice of the upstream API.
type Backend interface {
	ListItems(ctx context.Context, id *backend.Identity) ([]backend.CatalogItem, error)
	SearchItems(ctx context.Context, id *backend.Identity, query string) ([]backend.CatalogItem, error)
	AddItem(ctx context.Context, id *backend.Identity, item backend.CatalogItem) (*backend.CatalogItem, error)
	UpdateItem(ctx context.Context, id *backend.Identity, item backend.CatalogItem) (*backend.CatalogItem, error)
	EmbedAllItems(ctx context.Context, id *backend.Identity) error
	UploadItemImage(ctx context.Context, id *backend.Identity, itemID int64, filename string, file io.Reader) (string, error)
	VisualSearch(ctx context.Context, id *backend.Identity, filename string, file io.Reader) ([]backend.VisualMatch, error)
}

type Service struct {
	backend Backend
	logger  *logger.Logger
}

func NewService(b Backend, logg *logger.Logger) *Service {
	return &Service{backend: b, logger: logg}
}

type ListView struct {
	Items []backend.CatalogItem `json:"items"`
	Meta  pagination.Meta       `json:"meta"`
}

// List pages the catalog, optionally narrowed by a semantic search query.
func (s *Service) List(ctx context.Context, id *backend.Identity, query string, params pagination.Params) (*ListView, error) {
	var (
		items []backend.CatalogItem
		err   error
	)
	if q := strings.TrimSpace(query); q != "" {
		items, err = s.backend.SearchItems(ctx, id, q)
	} else {
		items, err = s.backend.ListItems(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	meta, start, end := pagination.Resolve(params, len(items))
	return &ListView{Items: items[start:end], Meta: meta}, nil
}

// Save creates the item when it has no ID and updates it otherwise.
func (s *Service) Save(ctx context.Context, id *backend.Identity, item backend.CatalogItem) (*backend.CatalogItem, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return s.backend.AddItem(ctx, id, item)
	}
	return s.backend.UpdateItem(ctx, id, item)
}

// ReindexEmbeddings rebuilds the vector index for the whole catalog.
func (s *Service) ReindexEmbeddings(ctx context.Context, id *backend.Identity) error {
	if err := s.backend.EmbedAllItems(ctx, id); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info(ctx, "catalog embeddings reindexed")
	}
	return nil
}

// AttachImage uploads a product photo and returns its hosted URL.
func (s *Service) AttachImage(ctx context.Context, id *backend.Identity, itemID int64, filename string, file io.Reader) (string, error) {
	if itemID <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return s.backend.UploadItemImage(ctx, id, itemID, filename, file)
}

// VisualSearch finds catalog items resembling the uploaded photo.
func (s *Service) VisualSearch(ctx context.Context, id *backend.Identity, filename string, file io.Reader) ([]backend.VisualMatch, error) {
	matches, err := s.backend.VisualSearch(ctx, id, filename, file)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []backend.VisualMatch{}
	}
	return matches, nil
}

func validateItem(item backend.CatalogItem) error {
	if strings.TrimSpace(item.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item title is required")
	}
	if item.Price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
	}
	return nil
}
