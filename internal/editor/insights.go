package editor

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lumenline/quotedesk/internal/backend"
)

// minimum similarity an alternative needs before it is pitched as a swap
var swapScoreFloor = 0.8

// SwapOpportunity recommends replacing a line's product with a cheaper
// alternative of comparable match quality.
type SwapOpportunity struct {
	LineIndex        int                 `json:"line_index"`
	CurrentTitle     string              `json:"current_title"`
	CurrentUnitPrice decimal.Decimal     `json:"current_unit_price"`
	Alternative      backend.Alternative `json:"alternative"`
	Savings          decimal.Decimal     `json:"savings"`
}

// ValueEngineering finds, per line, the cheapest alternative that beats the
// current unit price while scoring above the quality floor. Results sort by
// savings, largest first.
func ValueEngineering(lines []Line) []SwapOpportunity {
	var opportunities []SwapOpportunity
	for i, line := range lines {
		var best *backend.Alternative
		for j, alt := range line.Alternatives {
			price := decimal.NewFromFloat(alt.Price)
			if price.GreaterThanOrEqual(line.UnitPrice) || alt.Score <= swapScoreFloor {
				continue
			}
			if best == nil || alt.Price < best.Price {
				best = &line.Alternatives[j]
			}
		}
		if best == nil {
			continue
		}
		savings := line.UnitPrice.Sub(decimal.NewFromFloat(best.Price)).
			Mul(decimal.NewFromInt(line.Quantity))
		opportunities = append(opportunities, SwapOpportunity{
			LineIndex:        i,
			CurrentTitle:     line.Title,
			CurrentUnitPrice: line.UnitPrice,
			Alternative:      *best,
			Savings:          savings,
		})
	}
	sort.SliceStable(opportunities, func(a, b int) bool {
		return opportunities[a].Savings.GreaterThan(opportunities[b].Savings)
	})
	return opportunities
}

// TotalPotentialSavings sums the savings across all swap opportunities.
func TotalPotentialSavings(opportunities []SwapOpportunity) decimal.Decimal {
	total := decimal.Zero
	for _, op := range opportunities {
		total = total.Add(op.Savings)
	}
	return total
}

// CommercialSummary is the margin picture derived from the current lines.
type CommercialSummary struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
	MarginPct decimal.Decimal `json:"margin_pct"`
}

// Commercial derives revenue, cost, profit, and net margin from the lines.
// Aggregates are always recomputed, never cached apart from the lines.
func Commercial(st *State) CommercialSummary {
	revenue := st.GrandTotal()
	cost := st.TotalCost()
	profit := revenue.Sub(cost)
	summary := CommercialSummary{
		Revenue: revenue,
		Cost:    cost,
		Profit:  profit,
	}
	if revenue.IsPositive() {
		summary.MarginPct = profit.Div(revenue).Mul(decimal.NewFromInt(100))
	}
	return summary
}
