package editor

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lumenline/quotedesk/internal/backend"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
)

// Tab names one phase of the quotation editing workflow.
type Tab string

const (
	TabSpecs    Tab = "specs"
	TabPricing  Tab = "pricing"
	TabROI      Tab = "roi"
	TabFinalize Tab = "finalize"
)

// ParseTab validates a tab name supplied by a caller.
func ParseTab(value string) (Tab, error) {
	switch Tab(value) {
	case TabSpecs, TabPricing, TabROI, TabFinalize:
		return Tab(value), nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown editor tab %q", value))
	}
}

const placeholderImageBase = "https://placehold.co/100x100?text="

// Line is one quotation line item under edit. The total is never stored
// independently of quantity and unit price.
type Line struct {
	ProductID     int64                 `json:"product_id"`
	Title         string                `json:"title"`
	Description   string                `json:"description,omitempty"`
	RequirementID string                `json:"requirement_id,omitempty"`
	Quantity      int64                 `json:"quantity"`
	UnitPrice     decimal.Decimal       `json:"unit_price"`
	UnitCost      decimal.Decimal       `json:"unit_cost"`
	Total         decimal.Decimal       `json:"total"`
	Reasoning     string                `json:"reasoning,omitempty"`
	ImageURL      string                `json:"image_url,omitempty"`
	Alternatives  []backend.Alternative `json:"alternatives"`
}

// State is the server-held editing state for one (session, quotation) pair.
// Mutating methods bump Revision so stale responses can be discarded.
type State struct {
	QuotationID  int64                 `json:"quotation_id"`
	RFPTitle     string                `json:"rfp_title"`
	ClientName   string                `json:"client_name"`
	Status       string                `json:"status"`
	ActiveTab    Tab                   `json:"active_tab"`
	Revision     int64                 `json:"revision"`
	CostRatio    decimal.Decimal       `json:"cost_ratio"`
	Requirements []backend.Requirement `json:"requirements"`
	Lines        []Line                `json:"lines"`
}

// NewState normalizes a fetched quotation into editable state. Quantities
// default to 1, unit prices are back-derived from line totals when absent,
// and missing product images get a placeholder.
func NewState(q *backend.Quotation, costRatio float64) *State {
	st := &State{
		QuotationID: q.ID,
		RFPTitle:    q.RFPTitle,
		ClientName:  q.ClientName,
		Status:      q.Status,
		ActiveTab:   TabSpecs,
		CostRatio:   decimal.NewFromFloat(costRatio),
	}
	if q.Content != nil {
		if q.Content.ClientName != "" {
			st.ClientName = q.Content.ClientName
		}
		st.Requirements = q.Content.Requirements
		st.Lines = normalizeMatches(q.Content.Matches, st.CostRatio)
	}
	if st.Requirements == nil {
		st.Requirements = []backend.Requirement{}
	}
	if st.Lines == nil {
		st.Lines = []Line{}
	}
	if q.Status == backend.StatusSent || q.Status == backend.StatusFinalized {
		st.ActiveTab = TabFinalize
	}
	return st
}

func normalizeMatches(matches []backend.Match, costRatio decimal.Decimal) []Line {
	lines := make([]Line, 0, len(matches))
	for _, m := range matches {
		qty := m.Quantity
		if qty <= 0 {
			qty = 1
		}
		unit := decimal.NewFromFloat(m.UnitPrice)
		if unit.IsZero() && m.Price != 0 {
			unit = decimal.NewFromFloat(m.Price).Div(decimal.NewFromInt(qty))
		}
		image := m.ImageURL
		if image == "" {
			image = placeholderImage(m.ProductTitle)
		}
		alternatives := m.Alternatives
		if alternatives == nil {
			alternatives = []backend.Alternative{}
		}
		line := Line{
			ProductID:     m.ProductID,
			Title:         m.ProductTitle,
			Description:   m.ProductDescription,
			RequirementID: m.RequirementID,
			Quantity:      qty,
			UnitPrice:     unit,
			UnitCost:      unit.Mul(costRatio),
			Total:         unit.Mul(decimal.NewFromInt(qty)),
			Reasoning:     m.Reasoning,
			ImageURL:      image,
			Alternatives:  alternatives,
		}
		lines = append(lines, line)
	}
	return lines
}

func placeholderImage(title string) string {
	label := strings.TrimSpace(title)
	if label == "" {
		label = "Item"
	}
	if runes := []rune(label); len(runes) > 3 {
		label = string(runes[:3])
	}
	return placeholderImageBase + label
}

func (s *State) bump() {
	s.Revision++
}

func (s *State) lineAt(index int) (*Line, error) {
	if index < 0 || index >= len(s.Lines) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line index %d out of range", index))
	}
	return &s.Lines[index], nil
}

// SetClientName updates the client name shown on the quotation.
func (s *State) SetClientName(name string) {
	s.ClientName = strings.TrimSpace(name)
	s.bump()
}

// UpdateSpec edits one attribute of a requirement row.
func (s *State) UpdateSpec(index int, field, value string) error {
	if index < 0 || index >= len(s.Requirements) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("requirement index %d out of range", index))
	}
	req := &s.Requirements[index]
	switch field {
	case "description":
		req.Description = value
	case "Fixture_Type":
		req.FixtureType = value
	case "Wattage":
		req.Wattage = value
	case "Color_Temperature":
		req.ColorTemperature = value
	case "IP_Rating":
		req.IPRating = value
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown requirement field %q", field))
	}
	s.bump()
	return nil
}

// SetQuantity updates a line's quantity. Values below 1 are rejected and
// the previous quantity is kept.
func (s *State) SetQuantity(index int, quantity int64) error {
	line, err := s.lineAt(index)
	if err != nil {
		return err
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	line.Quantity = quantity
	line.Total = line.UnitPrice.Mul(decimal.NewFromInt(quantity))
	s.bump()
	return nil
}

// SetUnitPrice updates a line's unit price and recomputes its total.
func (s *State) SetUnitPrice(index int, price decimal.Decimal) error {
	line, err := s.lineAt(index)
	if err != nil {
		return err
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	line.UnitPrice = price
	line.Total = price.Mul(decimal.NewFromInt(line.Quantity))
	s.bump()
	return nil
}

// SelectAlternative swaps a line's product for one of its alternatives in
// place. Quantity and the line image are preserved and the total recomputes
// with the new price.
func (s *State) SelectAlternative(lineIndex, altIndex int) error {
	line, err := s.lineAt(lineIndex)
	if err != nil {
		return err
	}
	if altIndex < 0 || altIndex >= len(line.Alternatives) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("alternative index %d out of range", altIndex))
	}
	alt := line.Alternatives[altIndex]
	price := decimal.NewFromFloat(alt.Price)
	line.ProductID = alt.ID
	line.Title = alt.Title
	line.Description = alt.Description
	line.UnitPrice = price
	line.UnitCost = price.Mul(s.CostRatio)
	line.Total = price.Mul(decimal.NewFromInt(line.Quantity))
	line.Reasoning = fmt.Sprintf("Manually selected: %s (%s%% match)",
		alt.Title, decimal.NewFromFloat(alt.Score*100).Round(0))
	s.bump()
	return nil
}

// ApplyRematch replaces the entire line-item collection with freshly
// matched results. Prior manual edits do not survive.
func (s *State) ApplyRematch(matches []backend.Match) {
	s.Lines = normalizeMatches(matches, s.CostRatio)
	s.bump()
}

// ApplyGlobalMargin reprices every line from its unit cost so each carries
// the requested margin: price = cost / (1 - margin/100).
func (s *State) ApplyGlobalMargin(marginPct decimal.Decimal) error {
	hundred := decimal.NewFromInt(100)
	if marginPct.IsNegative() || marginPct.GreaterThanOrEqual(hundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "margin must be in [0, 100)")
	}
	factor := decimal.NewFromInt(1).Sub(marginPct.Div(hundred))
	for i := range s.Lines {
		line := &s.Lines[i]
		line.UnitPrice = line.UnitCost.Div(factor)
		line.Total = line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
	}
	s.bump()
	return nil
}

// SetStatus records the lifecycle status reported by the backend.
func (s *State) SetStatus(status string) {
	s.Status = status
	s.bump()
}

// SwitchTab records the active workflow phase.
func (s *State) SwitchTab(tab Tab) {
	s.ActiveTab = tab
	s.bump()
}

// GrandTotal sums every line total.
func (s *State) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Total)
	}
	return total
}

// TotalCost sums estimated cost across all lines.
func (s *State) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.UnitCost.Mul(decimal.NewFromInt(line.Quantity)))
	}
	return total
}

// UpdateParams builds the pricing payload persisted upstream.
func (s *State) UpdateParams() backend.UpdateQuotationParams {
	items := make([]backend.UpdateQuotationItem, 0, len(s.Lines))
	for _, line := range s.Lines {
		items = append(items, backend.UpdateQuotationItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.InexactFloat64(),
		})
	}
	return backend.UpdateQuotationParams{
		ClientName: s.ClientName,
		Items:      items,
	}
}
