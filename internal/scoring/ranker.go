package scoring

import (
	"sort"

	"github.com/almastelek/Sourceror/internal/catalog"
)

// ComponentScores holds the five dimension scores for one listing, each in
// [0,1]. They are recomputed per ranking pass: price is relative to the
// candidate set and totals change with the weight profile.
type ComponentScores struct {
	Price       float64 `json:"price"`
	Delivery    float64 `json:"delivery"`
	Reliability float64 `json:"reliability"`
	Warranty    float64 `json:"warranty"`
	SpecMatch   float64 `json:"spec_match"`
}

// Get returns the score for a named dimension.
func (c ComponentScores) Get(dimension string) float64 {
	switch dimension {
	case catalog.DimPrice:
		return c.Price
	case catalog.DimDelivery:
		return c.Delivery
	case catalog.DimReliability:
		return c.Reliability
	case catalog.DimWarranty:
		return c.Warranty
	case catalog.DimSpecMatch:
		return c.SpecMatch
	}
	return 0
}

// ScoredListing pairs a listing with its component scores and weighted total
// for one ranking pass.
type ScoredListing struct {
	Listing    catalog.Listing `json:"listing"`
	Scores     ComponentScores `json:"scores"`
	TotalScore float64         `json:"total_score"`
}

// ScoreListing computes component scores and the weighted total for one
// listing. candidates is the set the listing is being ranked within; price is
// normalized against it. weights is normalized before use.
func ScoreListing(l *catalog.Listing, candidates []catalog.Listing, spec *catalog.DecisionSpec, weights catalog.WeightVector) ScoredListing {
	w := weights.Normalized()
	scores := ComponentScores{
		Price:       scorePrice(l, candidates),
		Delivery:    scoreDelivery(l, spec.RiskTolerance),
		Reliability: scoreReliability(l),
		Warranty:    scoreWarranty(l, spec.RiskTolerance),
		SpecMatch:   scoreSpecMatch(l, spec),
	}
	total := w.Price*scores.Price +
		w.Delivery*scores.Delivery +
		w.Reliability*scores.Reliability +
		w.Warranty*scores.Warranty +
		w.SpecMatch*scores.SpecMatch
	return ScoredListing{Listing: *l, Scores: scores, TotalScore: total}
}

// Rank scores every listing against the given candidate set and returns them
// sorted descending by total score. The sort is stable: ties keep input
// order, which is documented behavior, not an accident.
func Rank(listings []catalog.Listing, spec *catalog.DecisionSpec, weights catalog.WeightVector) []ScoredListing {
	scored := make([]ScoredListing, 0, len(listings))
	for i := range listings {
		scored = append(scored, ScoreListing(&listings[i], listings, spec, weights))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})
	return scored
}

// ValueWeights derives the value profile from normalized base weights: price
// boosted 1.5x, everything else damped to 0.9x. Rank renormalizes.
func ValueWeights(base catalog.WeightVector) catalog.WeightVector {
	b := base.Normalized()
	return catalog.WeightVector{
		Price:       b.Price * 1.5,
		Delivery:    b.Delivery * 0.9,
		Reliability: b.Reliability * 0.9,
		Warranty:    b.Warranty * 0.9,
		SpecMatch:   b.SpecMatch * 0.9,
	}
}

// LowRiskWeights derives the risk-averse profile: reliability and warranty
// boosted 1.5x, price damped hardest.
func LowRiskWeights(base catalog.WeightVector) catalog.WeightVector {
	b := base.Normalized()
	return catalog.WeightVector{
		Price:       b.Price * 0.7,
		Delivery:    b.Delivery * 0.8,
		Reliability: b.Reliability * 1.5,
		Warranty:    b.Warranty * 1.5,
		SpecMatch:   b.SpecMatch * 0.8,
	}
}
