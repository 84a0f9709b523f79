package recommend

import (
	"github.com/almastelek/Sourceror/internal/catalog"
	"github.com/almastelek/Sourceror/internal/scoring"
)

// SelectTop3 ranks the pool under the buyer's own weights, then under the
// value and low-risk profiles, and picks the best not-yet-used listing from
// each pass. With fewer than three distinct listings it returns fewer picks;
// it never duplicates and never errors.
func SelectTop3(filtered []catalog.Listing, spec *catalog.DecisionSpec) []Recommendation {
	if len(filtered) == 0 {
		return nil
	}

	base := spec.Weights.Normalized()
	used := make(map[string]bool)
	var picks []Recommendation

	take := func(ranked []scoring.ScoredListing, label Label) {
		for _, sl := range ranked {
			if used[sl.Listing.ID] {
				continue
			}
			used[sl.Listing.ID] = true
			why, tradeoff := Explain(sl, label)
			picks = append(picks, Recommendation{
				Label:      label,
				Listing:    sl.Listing,
				Scores:     sl.Scores,
				TotalScore: sl.TotalScore,
				Why:        why,
				Tradeoff:   tradeoff,
			})
			return
		}
	}

	take(scoring.Rank(filtered, spec, base), LabelOverall)
	take(scoring.Rank(filtered, spec, scoring.ValueWeights(base)), LabelValue)
	take(scoring.Rank(filtered, spec, scoring.LowRiskWeights(base)), LabelLowRisk)

	return picks
}
