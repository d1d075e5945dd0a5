package activity

import (
	"context"
	"strings"

	"github.com/lumenline/quotedesk/internal/backend"
	"github.com/lumenline/quotedesk/pkg/logger"
	"github.com/lumenline/quotedesk/pkg/pagination"
)

// Backend is the audit-trail slice of the upstream API.
type Backend interface {
	Activity(ctx context.Context, id *backend.Identity, query string) ([]backend.ActivityEntry, error)
}

type Service struct {
	backend Backend
	logger  *logger.Logger
}

func NewService(b Backend, logg *logger.Logger) *Service {
	return &Service{backend: b, logger: logg}
}

type ListView struct {
	Items []backend.ActivityEntry `json:"items"`
	Meta  pagination.Meta         `json:"meta"`
}

// List pages the audit trail, optionally filtered by a free-text query.
func (s *Service) List(ctx context.Context, id *backend.Identity, query string, params pagination.Params) (*ListView, error) {
	entries, err := s.backend.Activity(ctx, id, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	meta, start, end := pagination.Resolve(params, len(entries))
	return &ListView{Items: entries[start:end], Meta: meta}, nil
}
