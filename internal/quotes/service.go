package quotes

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/lumenline/quotedesk/internal/backend"
	"github.com/lumenline/quotedesk/pkg/logger"
	"github.com/lumenline/quotedesk/pkg/pagination"
)

const recentLimit = 5

// Backend is the slice of the upstream API the quotation list needs.
type Backend interface {
	ListQuotations(ctx context.Context, id *backend.Identity) ([]backend.Quotation, error)
	UploadRFP(ctx context.Context, id *backend.Identity, filename string, file io.Reader) (*backend.Quotation, error)
}

type Service struct {
	backend Backend
	logger  *logger.Logger
}

func NewService(b Backend, logg *logger.Logger) *Service {
	return &Service{backend: b, logger: logg}
}

// Filter narrows the quotation list before paging.
type Filter struct {
	Status string
	Query  string
}

type ListView struct {
	Items []backend.Quotation `json:"items"`
	Meta  pagination.Meta     `json:"meta"`
}

// Metrics summarizes the pipeline for the dashboard header cards.
type Metrics struct {
	TotalQuotations int            `json:"total_quotations"`
	TotalValue      float64        `json:"total_value"`
	PendingCount    int            `json:"pending_count"`
	SentCount       int            `json:"sent_count"`
	StatusCounts    map[string]int `json:"status_counts"`
}

type DashboardView struct {
	Metrics Metrics             `json:"metrics"`
	Recent  []backend.Quotation `json:"recent"`
}

// List returns one page of quotations, newest first.
func (s *Service) List(ctx context.Context, id *backend.Identity, filter Filter, params pagination.Params) (*ListView, error) {
	all, err := s.backend.ListQuotations(ctx, id)
	if err != nil {
		return nil, err
	}
	filtered := applyFilter(all, filter)
	sortNewestFirst(filtered)
	meta, start, end := pagination.Resolve(params, len(filtered))
	return &ListView{Items: filtered[start:end], Meta: meta}, nil
}

// Dashboard aggregates pipeline metrics and the most recent quotations.
func (s *Service) Dashboard(ctx context.Context, id *backend.Identity) (*DashboardView, error) {
	all, err := s.backend.ListQuotations(ctx, id)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(all)

	metrics := Metrics{
		TotalQuotations: len(all),
		StatusCounts:    map[string]int{},
	}
	for _, q := range all {
		metrics.TotalValue += q.TotalPrice
		metrics.StatusCounts[q.Status]++
		switch q.Status {
		case backend.StatusDraft, backend.StatusReChanges:
			metrics.PendingCount++
		case backend.StatusSent:
			metrics.SentCount++
		}
	}

	recent := all
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	return &DashboardView{Metrics: metrics, Recent: recent}, nil
}

// Upload forwards an RFP document and returns the matched quotation.
func (s *Service) Upload(ctx context.Context, id *backend.Identity, filename string, file io.Reader) (*backend.Quotation, error) {
	quotation, err := s.backend.UploadRFP(ctx, id, filename, file)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info(s.logger.WithQuotationID(ctx, quotation.ID), "rfp processed")
	}
	return quotation, nil
}

func applyFilter(all []backend.Quotation, filter Filter) []backend.Quotation {
	status := strings.TrimSpace(filter.Status)
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	if status == "" && query == "" {
		return all
	}
	out := make([]backend.Quotation, 0, len(all))
	for _, q := range all {
		if status != "" && q.Status != status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(q.RFPTitle), query) &&
			!strings.Contains(strings.ToLower(q.ClientName), query) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Timestamps arrive as RFC 3339 strings, which order lexically.
func sortNewestFirst(list []backend.Quotation) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt > list[j].CreatedAt
	})
}
