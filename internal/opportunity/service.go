package opportunity

import (
	"context"
	"strings"
	"time"

	"github.com/lumenline/quotedesk/internal/backend"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
	"github.com/lumenline/quotedesk/pkg/logger"
	"github.com/lumenline/quotedesk/pkg/pagination"
)

const (
	statusClosed      = "Closed"
	upcomingRFPWindow = 30 * 24 * time.Hour
)

// Backend is the opportunity-tracker slice of the upstream API.
type Backend interface {
	ListOpportunities(ctx context.Context, id *backend.Identity) ([]backend.Opportunity, error)
	SearchOpportunities(ctx context.Context, id *backend.Identity, query string) ([]backend.Opportunity, error)
	GetOpportunity(ctx context.Context, id *backend.Identity, opportunityID int64) (*backend.Opportunity, error)
	AddOpportunity(ctx context.Context, id *backend.Identity, opp backend.Opportunity) (*backend.Opportunity, error)
	UpdateOpportunity(ctx context.Context, id *backend.Identity, opp backend.Opportunity) (*backend.Opportunity, error)
}

type Service struct {
	backend Backend
	logger  *logger.Logger
}

func NewService(b Backend, logg *logger.Logger) *Service {
	return &Service{backend: b, logger: logg}
}

// Metrics summarizes the pipeline, recomputed from the full collection on
// every load.
type Metrics struct {
	TotalValue   float64        `json:"total_value"`
	ActiveCount  int            `json:"active_count"`
	UpcomingRFPs int            `json:"upcoming_rfps"`
	StatusCounts map[string]int `json:"status_counts"`
}

type ListView struct {
	Items   []backend.Opportunity `json:"items"`
	Meta    pagination.Meta       `json:"meta"`
	Metrics Metrics               `json:"metrics"`
}

func (s *Service) List(ctx context.Context, id *backend.Identity, query string, params pagination.Params) (*ListView, error) {
	var (
		items []backend.Opportunity
		err   error
	)
	if q := strings.TrimSpace(query); q != "" {
		items, err = s.backend.SearchOpportunities(ctx, id, q)
	} else {
		items, err = s.backend.ListOpportunities(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	metrics := pipelineMetrics(items, time.Now())
	meta, start, end := pagination.Resolve(params, len(items))
	return &ListView{Items: items[start:end], Meta: meta, Metrics: metrics}, nil
}

func pipelineMetrics(items []backend.Opportunity, now time.Time) Metrics {
	metrics := Metrics{StatusCounts: map[string]int{}}
	windowEnd := now.Add(upcomingRFPWindow)
	for _, opp := range items {
		metrics.TotalValue += opp.EstimatedValue
		metrics.StatusCounts[opp.Status]++
		if opp.Status != statusClosed {
			metrics.ActiveCount++
		}
		if rfp, ok := parseRFPDate(opp.ExpectedRFP); ok && !rfp.Before(now) && !rfp.After(windowEnd) {
			metrics.UpcomingRFPs++
		}
	}
	return metrics
}

// Expected RFP dates arrive as date-only strings, with full timestamps as a
// fallback.
func parseRFPDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (s *Service) Get(ctx context.Context, id *backend.Identity, opportunityID int64) (*backend.Opportunity, error) {
	if opportunityID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "opportunity id is required")
	}
	return s.backend.GetOpportunity(ctx, id, opportunityID)
}

// Save creates the opportunity when it has no ID and updates it otherwise.
func (s *Service) Save(ctx context.Context, id *backend.Identity, opp backend.Opportunity) (*backend.Opportunity, error) {
	if strings.TrimSpace(opp.ClientName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}
	if opp.EstimatedValue < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated value cannot be negative")
	}
	var (
		saved *backend.Opportunity
		err   error
	)
	if opp.ID == 0 {
		saved, err = s.backend.AddOpportunity(ctx, id, opp)
	} else {
		saved, err = s.backend.UpdateOpportunity(ctx, id, opp)
	}
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info(ctx, "opportunity saved")
	}
	return saved, nil
}
