package recommend

import (
	"fmt"

	"github.com/almastelek/Sourceror/internal/catalog"
	"github.com/almastelek/Sourceror/internal/scoring"
)

// Why-bullet thresholds per dimension. Reliability is held to a slightly
// higher bar because its baseline already starts high for retail sources.
const (
	whyThreshold         = 0.70
	whyThresholdReliable = 0.75
	maxWhyBullets        = 3
)

// Explain produces the "why" bullets and the tradeoff line for one pick. It
// is a pure, rule-ordered function of the scored listing and its label, and
// always yields at least one bullet and exactly one tradeoff.
func Explain(sl scoring.ScoredListing, label Label) (why []string, tradeoff string) {
	l := sl.Listing
	s := sl.Scores

	// Strengths, in fixed dimension priority order.
	if s.Price >= whyThreshold {
		why = append(why, fmt.Sprintf("Competitive price at $%.2f", l.TotalCost))
	}
	if s.Delivery >= whyThreshold {
		if l.ETAMaxDays != nil {
			minDays := *l.ETAMaxDays
			if l.ETAMinDays != nil {
				minDays = *l.ETAMinDays
			}
			why = append(why, fmt.Sprintf("Fast delivery (%d-%d days)", minDays, *l.ETAMaxDays))
		} else {
			why = append(why, "Reliable delivery")
		}
	}
	if s.Reliability >= whyThresholdReliable {
		if l.Source == catalog.SourceBestBuy {
			why = append(why, "Best Buy's trusted retail experience")
		} else if l.SellerRating != nil && *l.SellerRating >= 95 {
			why = append(why, fmt.Sprintf("Highly rated seller (%.1f%% positive)", *l.SellerRating))
		}
	}
	if s.Warranty >= whyThreshold && l.WarrantyMonths != nil {
		why = append(why, fmt.Sprintf("%d-month warranty included", *l.WarrantyMonths))
	}
	if s.SpecMatch >= whyThreshold {
		why = append(why, "Matches your specifications well")
	}

	// Generic fillers when the strengths are thin.
	if len(why) < 2 {
		if l.Source == catalog.SourceBestBuy {
			why = append(why, "Backed by Best Buy's return policy")
		}
		if l.ReturnWindowDays != nil && *l.ReturnWindowDays >= 15 {
			why = append(why, fmt.Sprintf("%d-day return window", *l.ReturnWindowDays))
		}
	}

	if len(why) > maxWhyBullets {
		why = why[:maxWhyBullets]
	}
	if len(why) == 0 {
		why = append(why, "Balanced option across all criteria")
	}

	// Tradeoff: the weakest dimension, scanned in fixed order so the first
	// minimum wins.
	tradeoffMessages := map[string]string{
		catalog.DimPrice:       fmt.Sprintf("Higher price ($%.2f)", l.TotalCost),
		catalog.DimDelivery:    "Slower delivery estimate",
		catalog.DimReliability: "Less seller data available",
		catalog.DimWarranty:    "Limited warranty information",
		catalog.DimSpecMatch:   "May not match all preferences",
	}
	minScore := 1.0
	for _, dim := range catalog.Dimensions {
		if s.Get(dim) < minScore {
			minScore = s.Get(dim)
			tradeoff = tradeoffMessages[dim]
		}
	}

	// Label-specific caveats override the generic minimum.
	switch label {
	case LabelValue:
		if s.Reliability < whyThreshold {
			tradeoff = "May have less seller/return protection than premium options"
		}
	case LabelLowRisk:
		if s.Price < whyThreshold {
			tradeoff = "Premium price for added peace of mind"
		}
	}

	if tradeoff == "" {
		tradeoff = "Well-balanced with no major compromises"
	}
	return why, tradeoff
}
