package scoring

import "github.com/almastelek/Sourceror/internal/catalog"

// PassesConstraints checks one listing against the spec's hard limits.
func PassesConstraints(l *catalog.Listing, spec *catalog.DecisionSpec) bool {
	if l.TotalCost > spec.BudgetMax {
		return false
	}
	// Unknown condition gets the benefit of the doubt.
	if !spec.ConditionAllows(l.Condition) {
		return false
	}
	if spec.MaxDeliveryDays != nil && l.ETAMaxDays != nil && *l.ETAMaxDays > *spec.MaxDeliveryDays {
		return false
	}
	return true
}

// Filter removes listings that violate the spec's hard constraints. Pure and
// order-preserving; an empty result is a valid outcome, not an error.
func Filter(listings []catalog.Listing, spec *catalog.DecisionSpec) []catalog.Listing {
	out := make([]catalog.Listing, 0, len(listings))
	for i := range listings {
		if PassesConstraints(&listings[i], spec) {
			out = append(out, listings[i])
		}
	}
	return out
}
