package scoring

import (
	"math"
	"testing"

	"github.com/almastelek/Sourceror/internal/catalog"
)

func intPtr(v int) *int             { return &v }
func float64Ptr(v float64) *float64 { return &v }

func listingAt(cost float64) catalog.Listing {
	return catalog.Listing{ID: "l", Source: catalog.SourceEbay, Price: cost, TotalCost: cost}
}

func TestScorePrice(t *testing.T) {
	candidates := []catalog.Listing{listingAt(100), listingAt(200), listingAt(300)}

	t.Run("cheapest scores 1.0", func(t *testing.T) {
		got := scorePrice(&candidates[0], candidates)
		if got != 1.0 {
			t.Errorf("expected 1.0, got %f", got)
		}
	})

	t.Run("most expensive scores 0.0", func(t *testing.T) {
		got := scorePrice(&candidates[2], candidates)
		if got != 0.0 {
			t.Errorf("expected 0.0, got %f", got)
		}
	})

	t.Run("midpoint scores 0.5", func(t *testing.T) {
		got := scorePrice(&candidates[1], candidates)
		if math.Abs(got-0.5) > 0.0001 {
			t.Errorf("expected 0.5, got %f", got)
		}
	})

	t.Run("equal prices all score 1.0", func(t *testing.T) {
		flat := []catalog.Listing{listingAt(150), listingAt(150)}
		for i := range flat {
			if got := scorePrice(&flat[i], flat); got != 1.0 {
				t.Errorf("listing %d: expected 1.0, got %f", i, got)
			}
		}
	})

	t.Run("empty candidate set scores 0.5", func(t *testing.T) {
		l := listingAt(100)
		if got := scorePrice(&l, nil); got != 0.5 {
			t.Errorf("expected 0.5, got %f", got)
		}
	})
}

func TestScoreDelivery(t *testing.T) {
	tests := []struct {
		name string
		min  *int
		max  *int
		rt   catalog.RiskTolerance
		want float64
	}{
		{"two day", intPtr(1), intPtr(3), catalog.RiskMedium, 1.0},
		{"within five", intPtr(3), intPtr(5), catalog.RiskMedium, 0.8},
		{"within a week", intPtr(5), intPtr(8), catalog.RiskMedium, 0.6},
		{"within two weeks", intPtr(10), intPtr(14), catalog.RiskMedium, 0.4},
		{"slow boat", intPtr(14), intPtr(21), catalog.RiskMedium, 0.2},
		{"max only", nil, intPtr(5), catalog.RiskMedium, 0.8},
		{"unknown medium risk", nil, nil, catalog.RiskMedium, 0.35},
		{"unknown low risk", nil, nil, catalog.RiskLow, 0.20},
		{"unknown high risk", nil, nil, catalog.RiskHigh, 0.45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := catalog.Listing{ETAMinDays: tt.min, ETAMaxDays: tt.max}
			got := scoreDelivery(&l, tt.rt)
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestScoreReliability(t *testing.T) {
	t.Run("bestbuy baseline", func(t *testing.T) {
		l := catalog.Listing{Source: catalog.SourceBestBuy}
		if got := scoreReliability(&l); got != 0.85 {
			t.Errorf("expected 0.85, got %f", got)
		}
	})

	t.Run("ebay baseline", func(t *testing.T) {
		l := catalog.Listing{Source: catalog.SourceEbay}
		if got := scoreReliability(&l); got != 0.50 {
			t.Errorf("expected 0.50, got %f", got)
		}
	})

	t.Run("rating blends toward seller signal", func(t *testing.T) {
		l := catalog.Listing{Source: catalog.SourceEbay, SellerRating: float64Ptr(100)}
		// 0.5*0.7 + 1.0*0.3
		want := 0.65
		if got := scoreReliability(&l); math.Abs(got-want) > 0.0001 {
			t.Errorf("expected %f, got %f", want, got)
		}
	})

	t.Run("feedback and return window bonuses", func(t *testing.T) {
		l := catalog.Listing{
			Source:              catalog.SourceEbay,
			SellerRating:        float64Ptr(99),
			SellerFeedbackCount: intPtr(15000),
			ReturnWindowDays:    intPtr(30),
		}
		// 0.5*0.7 + 0.99*0.3 + 0.10 + 0.05
		want := 0.797
		if got := scoreReliability(&l); math.Abs(got-want) > 0.0001 {
			t.Errorf("expected %f, got %f", want, got)
		}
	})

	t.Run("clamped at 1.0", func(t *testing.T) {
		l := catalog.Listing{
			Source:              catalog.SourceBestBuy,
			SellerRating:        float64Ptr(100),
			SellerFeedbackCount: intPtr(100000),
			ReturnWindowDays:    intPtr(90),
		}
		if got := scoreReliability(&l); got > 1.0 {
			t.Errorf("score exceeds 1.0: %f", got)
		}
	})

	t.Run("feedback tiers", func(t *testing.T) {
		tiers := []struct {
			count int
			bonus float64
		}{
			{5, 0.0}, {10, 0.02}, {100, 0.04}, {1000, 0.07}, {10000, 0.10},
		}
		for _, tier := range tiers {
			l := catalog.Listing{Source: catalog.SourceEbay, SellerFeedbackCount: intPtr(tier.count)}
			want := 0.5 + tier.bonus
			if got := scoreReliability(&l); math.Abs(got-want) > 0.0001 {
				t.Errorf("count %d: expected %f, got %f", tier.count, want, got)
			}
		}
	})
}

func TestScoreWarranty(t *testing.T) {
	tests := []struct {
		name   string
		months *int
		source catalog.Source
		rt     catalog.RiskTolerance
		want   float64
	}{
		{"two years", intPtr(24), catalog.SourceEbay, catalog.RiskMedium, 1.0},
		{"one year", intPtr(12), catalog.SourceEbay, catalog.RiskMedium, 0.8},
		{"six months", intPtr(6), catalog.SourceEbay, catalog.RiskMedium, 0.6},
		{"three months", intPtr(3), catalog.SourceEbay, catalog.RiskMedium, 0.4},
		{"thirty days", intPtr(1), catalog.SourceEbay, catalog.RiskMedium, 0.2},
		{"unknown at bestbuy", nil, catalog.SourceBestBuy, catalog.RiskMedium, 0.6},
		{"unknown at ebay medium risk", nil, catalog.SourceEbay, catalog.RiskMedium, 0.15},
		{"unknown at ebay low risk", nil, catalog.SourceEbay, catalog.RiskLow, 0.0},
		{"unknown at ebay high risk", nil, catalog.SourceEbay, catalog.RiskHigh, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := catalog.Listing{Source: tt.source, WarrantyMonths: tt.months}
			got := scoreWarranty(&l, tt.rt)
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestUnknownPenaltyFallback(t *testing.T) {
	if got := UnknownPenalty("unheard-of"); got != 0.15 {
		t.Errorf("expected medium fallback 0.15, got %f", got)
	}
}
