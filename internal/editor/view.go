package editor

import "github.com/lumenline/quotedesk/internal/backend"

// RequirementView is a requirement row plus its match status. Unmatched
// requirements render as a pending placeholder, not an error.
type RequirementView struct {
	backend.Requirement
	Matched bool `json:"matched"`
}

type LineView struct {
	ProductID     int64                 `json:"product_id"`
	Title         string                `json:"title"`
	Description   string                `json:"description,omitempty"`
	RequirementID string                `json:"requirement_id,omitempty"`
	Quantity      int64                 `json:"quantity"`
	UnitPrice     float64               `json:"unit_price"`
	UnitCost      float64               `json:"unit_cost"`
	Total         float64               `json:"total"`
	Reasoning     string                `json:"reasoning,omitempty"`
	ImageURL      string                `json:"image_url,omitempty"`
	Alternatives  []backend.Alternative `json:"alternatives"`
}

type CommercialView struct {
	Revenue   float64 `json:"revenue"`
	Cost      float64 `json:"cost"`
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"margin_pct"`
}

type SwapView struct {
	LineIndex        int                 `json:"line_index"`
	CurrentTitle     string              `json:"current_title"`
	CurrentUnitPrice float64             `json:"current_unit_price"`
	Alternative      backend.Alternative `json:"alternative"`
	Savings          float64             `json:"savings"`
}

// View is the full editor snapshot returned to the front end.
type View struct {
	QuotationID      int64             `json:"quotation_id"`
	RFPTitle         string            `json:"rfp_title"`
	ClientName       string            `json:"client_name"`
	Status           string            `json:"status"`
	ActiveTab        Tab               `json:"active_tab"`
	Revision         int64             `json:"revision"`
	Requirements     []RequirementView `json:"requirements"`
	Lines            []LineView        `json:"lines"`
	GrandTotal       float64           `json:"grand_total"`
	Commercial       CommercialView    `json:"commercial"`
	ValueEngineering []SwapView        `json:"value_engineering"`
	PotentialSavings float64           `json:"potential_savings"`
}

// View materializes a snapshot of the state for rendering.
func (s *State) View() View {
	matched := make(map[string]bool, len(s.Lines))
	for _, line := range s.Lines {
		if line.RequirementID != "" {
			matched[line.RequirementID] = true
		}
	}

	requirements := make([]RequirementView, 0, len(s.Requirements))
	for _, req := range s.Requirements {
		requirements = append(requirements, RequirementView{
			Requirement: req,
			Matched:     matched[req.Key()],
		})
	}

	lines := make([]LineView, 0, len(s.Lines))
	for _, line := range s.Lines {
		lines = append(lines, LineView{
			ProductID:     line.ProductID,
			Title:         line.Title,
			Description:   line.Description,
			RequirementID: line.RequirementID,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice.InexactFloat64(),
			UnitCost:      line.UnitCost.InexactFloat64(),
			Total:         line.Total.InexactFloat64(),
			Reasoning:     line.Reasoning,
			ImageURL:      line.ImageURL,
			Alternatives:  line.Alternatives,
		})
	}

	summary := Commercial(s)
	opportunities := ValueEngineering(s.Lines)
	swaps := make([]SwapView, 0, len(opportunities))
	for _, op := range opportunities {
		swaps = append(swaps, SwapView{
			LineIndex:        op.LineIndex,
			CurrentTitle:     op.CurrentTitle,
			CurrentUnitPrice: op.CurrentUnitPrice.InexactFloat64(),
			Alternative:      op.Alternative,
			Savings:          op.Savings.InexactFloat64(),
		})
	}

	return View{
		QuotationID:  s.QuotationID,
		RFPTitle:     s.RFPTitle,
		ClientName:   s.ClientName,
		Status:       s.Status,
		ActiveTab:    s.ActiveTab,
		Revision:     s.Revision,
		Requirements: requirements,
		Lines:        lines,
		GrandTotal:   s.GrandTotal().InexactFloat64(),
		Commercial: CommercialView{
			Revenue:   summary.Revenue.InexactFloat64(),
			Cost:      summary.Cost.InexactFloat64(),
			Profit:    summary.Profit.InexactFloat64(),
			MarginPct: summary.MarginPct.InexactFloat64(),
		},
		ValueEngineering: swaps,
		PotentialSavings: TotalPotentialSavings(opportunities).InexactFloat64(),
	}
}
