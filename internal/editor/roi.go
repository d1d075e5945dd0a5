package editor

import (
	"regexp"
	"strconv"
)

// Assumptions are the user-adjustable inputs of the energy estimator.
type Assumptions struct {
	HoursPerDay       float64 `json:"hours_per_day"`
	DaysPerYear       float64 `json:"days_per_year"`
	ElectricityRate   float64 `json:"electricity_rate"`
	LegacyMultiplier  float64 `json:"legacy_multiplier"`
	BaselineWattage   float64 `json:"baseline_wattage,omitempty"`
	CO2FactorKgPerKWh float64 `json:"co2_factor_kg_per_kwh"`
}

// DefaultAssumptions mirror a typical commercial retrofit baseline.
func DefaultAssumptions(legacyMultiplier, co2Factor float64) Assumptions {
	return Assumptions{
		HoursPerDay:       12,
		DaysPerYear:       260,
		ElectricityRate:   0.15,
		LegacyMultiplier:  legacyMultiplier,
		CO2FactorKgPerKWh: co2Factor,
	}
}

// ROIAnalysis is the computed energy and payback picture. PaybackMonths is
// nil when annual savings are zero or negative.
type ROIAnalysis struct {
	AnnualHours       float64  `json:"annual_hours"`
	NewWattage        float64  `json:"new_wattage"`
	OldWattage        float64  `json:"old_wattage"`
	AnnualCostOld     float64  `json:"annual_cost_old"`
	AnnualCostNew     float64  `json:"annual_cost_new"`
	AnnualSavings     float64  `json:"annual_savings"`
	PaybackMonths     *float64 `json:"payback_months,omitempty"`
	PaybackLabel      string   `json:"payback_label"`
	FiveYearNet       float64  `json:"five_year_net"`
	CO2SavedKgPerYear float64  `json:"co2_saved_kg_per_year"`
	ReductionPct      float64  `json:"reduction_pct"`
}

// EstimateROI is a pure calculator over the proposed system wattage, the
// quoted investment, and the assumptions. The legacy baseline is either an
// absolute wattage or a multiplier over the new load.
func EstimateROI(totalNewWattage, totalCost float64, a Assumptions) ROIAnalysis {
	annualHours := a.HoursPerDay * a.DaysPerYear

	oldWattage := a.BaselineWattage
	if oldWattage <= 0 {
		oldWattage = totalNewWattage * a.LegacyMultiplier
	}

	annualCostOld := oldWattage / 1000 * annualHours * a.ElectricityRate
	annualCostNew := totalNewWattage / 1000 * annualHours * a.ElectricityRate
	annualSavings := annualCostOld - annualCostNew

	analysis := ROIAnalysis{
		AnnualHours:       annualHours,
		NewWattage:        totalNewWattage,
		OldWattage:        oldWattage,
		AnnualCostOld:     annualCostOld,
		AnnualCostNew:     annualCostNew,
		AnnualSavings:     annualSavings,
		FiveYearNet:       annualSavings*5 - totalCost,
		CO2SavedKgPerYear: (oldWattage - totalNewWattage) / 1000 * annualHours * a.CO2FactorKgPerKWh,
		PaybackLabel:      "N/A",
	}
	if oldWattage > 0 {
		analysis.ReductionPct = (1 - totalNewWattage/oldWattage) * 100
	}
	if annualSavings > 0 {
		months := totalCost / annualSavings * 12
		analysis.PaybackMonths = &months
		analysis.PaybackLabel = strconv.FormatFloat(months, 'f', 1, 64) + " months"
	}
	return analysis
}

var wattagePattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseWattage extracts the numeric wattage from free-text values such as
// "36W" or "approx. 18.5 watts". Returns 0 when no number is present.
func ParseWattage(value string) float64 {
	match := wattagePattern.FindString(value)
	if match == "" {
		return 0
	}
	watts, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return watts
}

// TotalSystemWattage estimates the proposed load by correlating each line
// with its requirement's wattage, scaled by quantity.
func TotalSystemWattage(st *State) float64 {
	byKey := make(map[string]float64, len(st.Requirements))
	for _, req := range st.Requirements {
		if key := req.Key(); key != "" {
			byKey[key] = ParseWattage(req.Wattage)
		}
	}
	var total float64
	for _, line := range st.Lines {
		total += byKey[line.RequirementID] * float64(line.Quantity)
	}
	return total
}
