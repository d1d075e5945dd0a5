package editor

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lumenline/quotedesk/internal/backend"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
)

func sampleQuotation() *backend.Quotation {
	return &backend.Quotation{
		ID:       42,
		RFPTitle: "Hotel Phoenix Retrofit",
		Status:   backend.StatusDraft,
		Content: &backend.QuotationContent{
			ClientName: "Marriott Hotels",
			Requirements: []backend.Requirement{
				{ID: "R1", FixtureType: "Downlight", Wattage: "36W"},
				{TypeID: "T2", FixtureType: "Track", Wattage: "18W"},
				{ID: "R3", FixtureType: "Flood", Wattage: "150W"},
			},
			Matches: []backend.Match{
				{
					ProductID:     1,
					ProductTitle:  "LED Downlight Pro",
					RequirementID: "R1",
					Quantity:      10,
					UnitPrice:     40,
					Price:         400,
					ImageURL:      "https://cdn.lumenline.io/products/1.jpg",
					Alternatives: []backend.Alternative{
						{ID: 5, Title: "LED Downlight Eco", Price: 30, Score: 0.9},
						{ID: 6, Title: "LED Downlight Lux", Price: 55, Score: 0.95},
					},
				},
				{
					ProductID:     2,
					ProductTitle:  "Track Spot",
					RequirementID: "T2",
					Quantity:      0,
					Price:         120,
				},
			},
		},
	}
}

func TestNewStateNormalizesLines(t *testing.T) {
	st := NewState(sampleQuotation(), 0.6)

	if st.ActiveTab != TabSpecs {
		t.Fatalf("draft quotation should open on specs, got %s", st.ActiveTab)
	}
	if len(st.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(st.Lines))
	}

	second := st.Lines[1]
	if second.Quantity != 1 {
		t.Fatalf("zero quantity should default to 1, got %d", second.Quantity)
	}
	if !second.UnitPrice.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("unit price should derive from line price, got %s", second.UnitPrice)
	}
	if !strings.HasPrefix(second.ImageURL, placeholderImageBase) {
		t.Fatalf("missing image should get placeholder, got %q", second.ImageURL)
	}
	if second.Alternatives == nil {
		t.Fatalf("alternatives should never be nil")
	}

	first := st.Lines[0]
	if !first.UnitCost.Equal(decimal.NewFromInt(24)) {
		t.Fatalf("unit cost should be 60%% of unit price, got %s", first.UnitCost)
	}
	if !first.Total.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("unexpected initial total %s", first.Total)
	}
}

func TestNewStateSentQuotationOpensOnFinalize(t *testing.T) {
	q := sampleQuotation()
	q.Status = backend.StatusSent
	if st := NewState(q, 0.6); st.ActiveTab != TabFinalize {
		t.Fatalf("sent quotation should open on finalize, got %s", st.ActiveTab)
	}

	q.Status = backend.StatusFinalized
	if st := NewState(q, 0.6); st.ActiveTab != TabFinalize {
		t.Fatalf("finalized quotation should open on finalize, got %s", st.ActiveTab)
	}
}

func TestQuantityAndPriceEditsKeepTotalInvariant(t *testing.T) {
	st := NewState(sampleQuotation(), 0.6)

	if err := st.SetQuantity(0, 7); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if !st.Lines[0].Total.Equal(decimal.NewFromInt(280)) {
		t.Fatalf("total should follow quantity edit, got %s", st.Lines[0].Total)
	}

	if err := st.SetUnitPrice(0, decimal.NewFromFloat(42.5)); err != nil {
		t.Fatalf("set unit price: %v", err)
	}
	if !st.Lines[0].Total.Equal(decimal.NewFromFloat(297.5)) {
		t.Fatalf("total should follow price edit, got %s", st.Lines[0].Total)
	}
}

func TestQuantityBelowOneIsRejected(t *testing.T) {
	st := NewState(sampleQuotation(), 0.6)
	for _, qty := range []int64{0, -3} {
		err := st.SetQuantity(0, qty)
		if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for quantity %d, got %v", qty, err)
		}
	}
	if st.Lines[0].Quantity != 10 {
		t.Fatalf("rejected edit must keep previous quantity, got %d", st.Lines[0].Quantity)
	}
}

func TestSelectAlternativePreservesQuantity(t *testing.T) {
	st := NewState(sampleQuotation(), 0.6)

	if err := st.SelectAlternative(0, 0); err != nil {
		t.Fatalf("select alternative: %v", err)
	}

	line := st.Lines[0]
	if line.ProductID != 5 || line.Title != "LED Downlight Eco" {
		t.Fatalf("product identity should swap, got %+v", line)
	}
	if line.Quantity != 10 {
		t.Fatalf("quantity must be preserved, got %d", line.Quantity)
	}
	if !line.Total.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("total should recompute with new price, got %s", line.Total)
	}
	if line.Reasoning != "Manually selected: LED Downlight Eco (90% match)" {
		t.Fatalf("unexpected reasoning %q", line.Reasoning)
	}
	if line.ImageURL != "https://cdn.lumenline.io/products/1.jpg" {
		t.Fatalf("swap should keep the line image, got %q", line.ImageURL)
	}

	if err := st.SelectAlternative(0, 9); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad index, got %v", err)
	}
}

func TestPlaceholderImageTruncatesRunes(t *testing.T) {
	got := placeholderImage("Lámpara de pie")
	if !strings.HasSuffix(got, "Lám") {
		t.Fatalf("expected rune-safe label, got %q", got)
	}
	if placeholderImage("  ") != placeholderImageBase+"Item" {
		t.Fatalf("blank title should fall back to Item")
	}
}

func TestApplyGlobalMargin(t *testing.T) {
	st := NewState(sampleQuotation(), 0.6)

	if err := st.ApplyGlobalMargin(decimal.NewFromInt(40)); err != nil {
		t.Fatalf("apply margin: %v", err)
	}
	// cost 24 at 40% margin -> price 40
	if !st.Lines[0].UnitPrice.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected unit price 40, got %s", st.Lines[0].UnitPrice)
	}
	if !st.Lines[0].Total.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("totals must recompute after margin, got %s", st.Lines[0].Total)
	}

	for _, bad := range []int64{-1, 100, 150} {
		if err := st.ApplyGlobalMargin(decimal.NewFromInt(bad)); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for margin %d, got %v", bad, err)
		}
	}
}

func TestApplyRematchReplacesEdits(t *testing.T) {
	st := NewState(sampleQuotation(), 0.6)
	if err := st.SetUnitPrice(0, decimal.NewFromInt(999)); err != nil {
		t.Fatalf("set unit price: %v", err)
	}

	st.ApplyRematch([]backend.Match{
		{ProductID: 9, ProductTitle: "New Match", RequirementID: "R1", Quantity: 2, UnitPrice: 50},
	})

	if len(st.Lines) != 1 {
		t.Fatalf("rematch must replace the whole collection, got %d lines", len(st.Lines))
	}
	if st.Lines[0].ProductID != 9 {
		t.Fatalf("unexpected line after rematch: %+v", st.Lines[0])
	}
}

func TestUpdateSpecFields(t *testing.T) {
	st := NewState(sampleQuotation(), 0.6)

	if err := st.UpdateSpec(0, "Wattage", "24W"); err != nil {
		t.Fatalf("update spec: %v", err)
	}
	if st.Requirements[0].Wattage != "24W" {
		t.Fatalf("wattage edit lost: %+v", st.Requirements[0])
	}

	if err := st.UpdateSpec(0, "Lumen_Output", "x"); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
	if err := st.UpdateSpec(99, "Wattage", "x"); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad index, got %v", err)
	}
}

func TestRevisionBumpsOnEveryMutation(t *testing.T) {
	st := NewState(sampleQuotation(), 0.6)
	start := st.Revision

	if err := st.SetQuantity(0, 2); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	st.SwitchTab(TabPricing)
	st.SetClientName("Hilton")

	if st.Revision != start+3 {
		t.Fatalf("expected 3 revision bumps, got %d -> %d", start, st.Revision)
	}
}

func TestViewMarksPendingRequirements(t *testing.T) {
	st := NewState(sampleQuotation(), 0.6)
	view := st.View()

	if len(view.Requirements) != 3 {
		t.Fatalf("expected 3 requirement rows, got %d", len(view.Requirements))
	}
	if !view.Requirements[0].Matched || !view.Requirements[1].Matched {
		t.Fatalf("matched requirements should be flagged: %+v", view.Requirements)
	}
	if view.Requirements[2].Matched {
		t.Fatalf("requirement without a line must stay pending")
	}
	if view.GrandTotal != 520 {
		t.Fatalf("unexpected grand total %v", view.GrandTotal)
	}
}
