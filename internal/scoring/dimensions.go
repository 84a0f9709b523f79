package scoring

import "github.com/almastelek/Sourceror/internal/catalog"

// unknownPenalties maps risk tolerance to the penalty applied when a listing
// is missing delivery or warranty data. Lower tolerance punishes unknowns harder.
var unknownPenalties = map[catalog.RiskTolerance]float64{
	catalog.RiskLow:    0.30,
	catalog.RiskMedium: 0.15,
	catalog.RiskHigh:   0.05,
}

// sourceReliabilityBaseline is the starting reliability score per marketplace.
// A large retailer starts high; a marketplace of individual sellers starts low
// and earns trust through seller signals.
var sourceReliabilityBaseline = map[catalog.Source]float64{
	catalog.SourceBestBuy: 0.85,
	catalog.SourceEbay:    0.50,
}

// UnknownPenalty returns the missing-data penalty for a risk tolerance.
// Unrecognized tolerances fall back to the medium penalty.
func UnknownPenalty(rt catalog.RiskTolerance) float64 {
	if p, ok := unknownPenalties[rt]; ok {
		return p
	}
	return unknownPenalties[catalog.RiskMedium]
}

// scorePrice min-max normalizes total cost across the candidate set passed to
// this ranking call: 1.0 = cheapest, 0.0 = most expensive. When every
// candidate costs the same there is no information in price, so all score 1.0.
// The same listing can score differently when ranked within a different subset.
func scorePrice(l *catalog.Listing, candidates []catalog.Listing) float64 {
	if len(candidates) == 0 {
		return 0.5
	}
	minCost := candidates[0].TotalCost
	maxCost := candidates[0].TotalCost
	for i := 1; i < len(candidates); i++ {
		if candidates[i].TotalCost < minCost {
			minCost = candidates[i].TotalCost
		}
		if candidates[i].TotalCost > maxCost {
			maxCost = candidates[i].TotalCost
		}
	}
	if maxCost == minCost {
		return 1.0
	}
	return 1.0 - (l.TotalCost-minCost)/(maxCost-minCost)
}

// scoreDelivery buckets the mean ETA. Buckets are inclusive on the upper
// bound and evaluated in ascending order; first match wins. Unknown ETA is
// scored 0.5 minus the risk-tolerance penalty.
func scoreDelivery(l *catalog.Listing, rt catalog.RiskTolerance) float64 {
	if l.ETAMaxDays == nil {
		return 0.5 - UnknownPenalty(rt)
	}
	avgETA := float64(*l.ETAMaxDays)
	if l.ETAMinDays != nil {
		avgETA = float64(*l.ETAMinDays+*l.ETAMaxDays) / 2
	}
	switch {
	case avgETA <= 2:
		return 1.0
	case avgETA <= 5:
		return 0.8
	case avgETA <= 7:
		return 0.6
	case avgETA <= 14:
		return 0.4
	default:
		return 0.2
	}
}

// scoreReliability starts from the per-source baseline, blends in the seller
// rating when known, then adds capped bonuses for feedback volume and return
// window length.
func scoreReliability(l *catalog.Listing) float64 {
	score := sourceReliabilityBaseline[l.Source]

	if l.SellerRating != nil {
		score = score*0.7 + (*l.SellerRating/100)*0.3
	}

	if l.SellerFeedbackCount != nil {
		var bonus float64
		switch {
		case *l.SellerFeedbackCount >= 10000:
			bonus = 0.10
		case *l.SellerFeedbackCount >= 1000:
			bonus = 0.07
		case *l.SellerFeedbackCount >= 100:
			bonus = 0.04
		case *l.SellerFeedbackCount >= 10:
			bonus = 0.02
		}
		score += bonus
	}

	if l.ReturnWindowDays != nil {
		switch {
		case *l.ReturnWindowDays >= 30:
			score += 0.05
		case *l.ReturnWindowDays >= 15:
			score += 0.02
		}
	}

	return clamp(score, 0.0, 1.0)
}

// scoreWarranty buckets known warranty lengths. Unknown warranty defaults by
// source: a trusted retailer usually carries a manufacturer warranty, a
// marketplace listing usually carries none, minus the risk penalty.
func scoreWarranty(l *catalog.Listing, rt catalog.RiskTolerance) float64 {
	if l.WarrantyMonths == nil {
		if l.Source == catalog.SourceBestBuy {
			return 0.6
		}
		return clamp(0.3-UnknownPenalty(rt), 0.0, 1.0)
	}
	switch {
	case *l.WarrantyMonths >= 24:
		return 1.0
	case *l.WarrantyMonths >= 12:
		return 0.8
	case *l.WarrantyMonths >= 6:
		return 0.6
	case *l.WarrantyMonths >= 3:
		return 0.4
	default:
		return 0.2
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
