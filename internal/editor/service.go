package editor

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lumenline/quotedesk/internal/backend"
	"github.com/lumenline/quotedesk/pkg/config"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
	"github.com/lumenline/quotedesk/pkg/logger"
)

// QuotationBackend is the slice of the upstream client the editor needs.
type QuotationBackend interface {
	GetQuotation(ctx context.Context, id *backend.Identity, quotationID int64) (*backend.Quotation, error)
	UpdateQuotation(ctx context.Context, id *backend.Identity, quotationID int64, params backend.UpdateQuotationParams) (*backend.UpdateQuotationResult, error)
	RematchQuotation(ctx context.Context, id *backend.Identity, quotationID int64, requirements []backend.Requirement) (*backend.RematchResult, error)
	SetQuotationStatus(ctx context.Context, id *backend.Identity, quotationID int64, status string) error
	SendQuotation(ctx context.Context, id *backend.Identity, quotationID int64, recipient string) error
	DownloadQuotation(ctx context.Context, id *backend.Identity, quotationID int64) ([]byte, string, error)
}

// Service drives the quotation editing workflow on top of the state store.
type Service struct {
	backend     QuotationBackend
	store       *Store
	logger      *logger.Logger
	costRatio   float64
	roiDefaults Assumptions
}

func NewService(b QuotationBackend, store *Store, logg *logger.Logger, editorCfg config.EditorConfig, roiCfg config.ROIConfig) *Service {
	return &Service{
		backend:     b,
		store:       store,
		logger:      logg,
		costRatio:   editorCfg.CostRatio,
		roiDefaults: DefaultAssumptions(roiCfg.LegacyWattageMultiplier, roiCfg.CO2FactorKgPerKWh),
	}
}

// Open fetches the quotation and replaces any existing editing state. A
// sent or finalized quotation lands directly on the finalize tab.
func (s *Service) Open(ctx context.Context, id *backend.Identity, sessionID string, quotationID int64) (View, error) {
	q, err := s.backend.GetQuotation(ctx, id, quotationID)
	if err != nil {
		return View{}, err
	}
	st := NewState(q, s.costRatio)
	s.store.Put(ctx, Key{SessionID: sessionID, QuotationID: quotationID}, st)
	return st.View(), nil
}

// Get returns current editing state, opening the quotation on first access.
func (s *Service) Get(ctx context.Context, id *backend.Identity, sessionID string, quotationID int64) (View, error) {
	var view View
	err := s.store.Read(ctx, s.key(sessionID, quotationID), func(st *State) error {
		view = st.View()
		return nil
	})
	if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		return s.Open(ctx, id, sessionID, quotationID)
	}
	if err != nil {
		return View{}, err
	}
	return view, nil
}

// Close discards the editing state for a quotation.
func (s *Service) Close(ctx context.Context, sessionID string, quotationID int64) {
	s.store.Delete(ctx, s.key(sessionID, quotationID))
}

// SwitchTab changes the active phase. Leaving pricing for finalize first
// persists the pricing edits; a failed save keeps the user on pricing.
func (s *Service) SwitchTab(ctx context.Context, id *backend.Identity, sessionID string, quotationID int64, tab Tab) (View, error) {
	var current Tab
	err := s.store.Read(ctx, s.key(sessionID, quotationID), func(st *State) error {
		current = st.ActiveTab
		return nil
	})
	if err != nil {
		return View{}, err
	}
	if current == TabPricing && tab == TabFinalize {
		if _, err := s.SavePricing(ctx, id, sessionID, quotationID); err != nil {
			return View{}, err
		}
	}
	return s.update(ctx, sessionID, quotationID, func(st *State) error {
		st.SwitchTab(tab)
		return nil
	})
}

// UpdateSpec edits one requirement attribute.
func (s *Service) UpdateSpec(ctx context.Context, sessionID string, quotationID int64, index int, field, value string) (View, error) {
	return s.update(ctx, sessionID, quotationID, func(st *State) error {
		return st.UpdateSpec(index, field, value)
	})
}

// SetClientName updates the client name on the quotation.
func (s *Service) SetClientName(ctx context.Context, sessionID string, quotationID int64, name string) (View, error) {
	return s.update(ctx, sessionID, quotationID, func(st *State) error {
		st.SetClientName(name)
		return nil
	})
}

// SetQuantity edits a line's quantity.
func (s *Service) SetQuantity(ctx context.Context, sessionID string, quotationID int64, index int, quantity int64) (View, error) {
	return s.update(ctx, sessionID, quotationID, func(st *State) error {
		return st.SetQuantity(index, quantity)
	})
}

// SetUnitPrice edits a line's unit price.
func (s *Service) SetUnitPrice(ctx context.Context, sessionID string, quotationID int64, index int, price float64) (View, error) {
	return s.update(ctx, sessionID, quotationID, func(st *State) error {
		return st.SetUnitPrice(index, decimal.NewFromFloat(price))
	})
}

// SelectAlternative swaps a line for one of its candidate products.
func (s *Service) SelectAlternative(ctx context.Context, sessionID string, quotationID int64, lineIndex, altIndex int) (View, error) {
	return s.update(ctx, sessionID, quotationID, func(st *State) error {
		return st.SelectAlternative(lineIndex, altIndex)
	})
}

// ApplyGlobalMargin reprices every line to the requested margin.
func (s *Service) ApplyGlobalMargin(ctx context.Context, sessionID string, quotationID int64, marginPct float64) (View, error) {
	return s.update(ctx, sessionID, quotationID, func(st *State) error {
		return st.ApplyGlobalMargin(decimal.NewFromFloat(marginPct))
	})
}

// Rematch sends the edited requirements upstream and swaps in the returned
// line items wholesale. If the state changed while the rematch was in
// flight the stale response is discarded.
func (s *Service) Rematch(ctx context.Context, id *backend.Identity, sessionID string, quotationID int64) (View, error) {
	key := s.key(sessionID, quotationID)
	var (
		requirements []backend.Requirement
		revision     int64
	)
	err := s.store.Read(ctx, key, func(st *State) error {
		requirements = append([]backend.Requirement(nil), st.Requirements...)
		revision = st.Revision
		return nil
	})
	if err != nil {
		return View{}, err
	}

	result, err := s.backend.RematchQuotation(ctx, id, quotationID, requirements)
	if err != nil {
		return View{}, err
	}

	return s.update(ctx, sessionID, quotationID, func(st *State) error {
		if st.Revision != revision {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quotation changed while rematching")
		}
		st.ApplyRematch(result.Matches)
		return nil
	})
}

// SavePricing persists current pricing edits upstream. A response for a
// revision that has since moved on is discarded.
func (s *Service) SavePricing(ctx context.Context, id *backend.Identity, sessionID string, quotationID int64) (View, error) {
	key := s.key(sessionID, quotationID)
	var (
		params   backend.UpdateQuotationParams
		revision int64
	)
	err := s.store.Read(ctx, key, func(st *State) error {
		params = st.UpdateParams()
		revision = st.Revision
		return nil
	})
	if err != nil {
		return View{}, err
	}

	if _, err := s.backend.UpdateQuotation(ctx, id, quotationID, params); err != nil {
		return View{}, err
	}

	return s.update(ctx, sessionID, quotationID, func(st *State) error {
		if st.Revision != revision {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quotation changed while saving")
		}
		if st.Status == backend.StatusDraft || st.Status == backend.StatusReChanges {
			st.SetStatus(backend.StatusSaved)
		}
		return nil
	})
}

// SetStatus moves the quotation through its lifecycle upstream and mirrors
// the transition locally.
func (s *Service) SetStatus(ctx context.Context, id *backend.Identity, sessionID string, quotationID int64, status string) (View, error) {
	if !validStatus(status) {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown quotation status "+status)
	}
	if err := s.backend.SetQuotationStatus(ctx, id, quotationID, status); err != nil {
		return View{}, err
	}
	return s.update(ctx, sessionID, quotationID, func(st *State) error {
		st.SetStatus(status)
		return nil
	})
}

// Finalize marks the quotation ready for delivery.
func (s *Service) Finalize(ctx context.Context, id *backend.Identity, sessionID string, quotationID int64) (View, error) {
	return s.SetStatus(ctx, id, sessionID, quotationID, backend.StatusFinalized)
}

// Send emails the quotation. The recipient only needs to be non-empty.
func (s *Service) Send(ctx context.Context, id *backend.Identity, sessionID string, quotationID int64, recipient string) (View, error) {
	if strings.TrimSpace(recipient) == "" {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "recipient email is required")
	}
	if err := s.backend.SendQuotation(ctx, id, quotationID, recipient); err != nil {
		return View{}, err
	}
	return s.update(ctx, sessionID, quotationID, func(st *State) error {
		st.SetStatus(backend.StatusSent)
		return nil
	})
}

// Download fetches the rendered document from the backend.
func (s *Service) Download(ctx context.Context, id *backend.Identity, quotationID int64) ([]byte, string, error) {
	return s.backend.DownloadQuotation(ctx, id, quotationID)
}

// ROI answers the energy estimator for the current lines. Unset assumption
// fields fall back to configured defaults.
func (s *Service) ROI(ctx context.Context, sessionID string, quotationID int64, a Assumptions) (ROIAnalysis, error) {
	defaults := s.roiDefaults
	if a.HoursPerDay <= 0 {
		a.HoursPerDay = defaults.HoursPerDay
	}
	if a.DaysPerYear <= 0 {
		a.DaysPerYear = defaults.DaysPerYear
	}
	if a.ElectricityRate <= 0 {
		a.ElectricityRate = defaults.ElectricityRate
	}
	if a.LegacyMultiplier <= 0 {
		a.LegacyMultiplier = defaults.LegacyMultiplier
	}
	if a.CO2FactorKgPerKWh <= 0 {
		a.CO2FactorKgPerKWh = defaults.CO2FactorKgPerKWh
	}

	var analysis ROIAnalysis
	err := s.store.Read(ctx, s.key(sessionID, quotationID), func(st *State) error {
		analysis = EstimateROI(TotalSystemWattage(st), st.GrandTotal().InexactFloat64(), a)
		return nil
	})
	if err != nil {
		return ROIAnalysis{}, err
	}
	return analysis, nil
}

func (s *Service) key(sessionID string, quotationID int64) Key {
	return Key{SessionID: sessionID, QuotationID: quotationID}
}

func (s *Service) update(ctx context.Context, sessionID string, quotationID int64, fn func(*State) error) (View, error) {
	var view View
	err := s.store.Update(ctx, s.key(sessionID, quotationID), func(st *State) error {
		if err := fn(st); err != nil {
			return err
		}
		view = st.View()
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return view, nil
}

func validStatus(status string) bool {
	switch status {
	case backend.StatusDraft, backend.StatusSaved, backend.StatusCreated,
		backend.StatusFinalized, backend.StatusSent, backend.StatusReChanges:
		return true
	}
	return false
}
