package recommend

import (
	"fmt"

	"github.com/almastelek/Sourceror/internal/catalog"
	"github.com/almastelek/Sourceror/internal/scoring"
)

// weightFactors are the multipliers tested per dimension, in fixed scan
// order. The first factor that flips the winner is the one reported.
var weightFactors = []float64{0.5, 0.75, 1.25, 1.5, 2.0}

// budgetIncreases are the budget relaxations tested, strictly increasing.
var budgetIncreases = []float64{50, 100, 200}

// maxReportedSwitches caps the weight-switch list to the first findings.
const maxReportedSwitches = 4

var dimensionDisplayNames = map[string]string{
	catalog.DimPrice:       "Price",
	catalog.DimDelivery:    "Delivery Speed",
	catalog.DimReliability: "Reliability",
	catalog.DimWarranty:    "Warranty",
	catalog.DimSpecMatch:   "Spec Match",
}

// Analyzer probes how stable the current winner is against small weight and
// budget perturbations. It re-runs the full filter+rank pipeline per probe,
// sequentially, so tie-breaking stays deterministic.
type Analyzer struct {
	spec        *catalog.DecisionSpec
	allListings []catalog.Listing // unfiltered pool, for budget relaxation
}

// NewAnalyzer builds an analyzer over the spec that produced the current
// winner. allListings is the full deduplicated pool before constraint
// filtering: a relaxed budget can admit previously excluded candidates.
func NewAnalyzer(spec *catalog.DecisionSpec, allListings []catalog.Listing) *Analyzer {
	return &Analyzer{spec: spec, allListings: allListings}
}

func winnerID(listings []catalog.Listing, spec *catalog.DecisionSpec, weights catalog.WeightVector) string {
	ranked := scoring.Rank(listings, spec, weights)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].Listing.ID
}

// WeightSensitivity scans each dimension across the fixed multipliers and
// records the first multiplier that changes the winner, one switch per
// dimension at most. The weight sweep re-ranks the already-filtered pool
// only; relaxing a weight never changes which candidates qualify.
func (a *Analyzer) WeightSensitivity(filtered []catalog.Listing, currentWinnerID string) []WeightSwitch {
	base := a.spec.Weights.Normalized()
	var switches []WeightSwitch

	for _, dim := range catalog.Dimensions {
		for _, factor := range weightFactors {
			modified := base.WithDimension(dim, base.Get(dim)*factor)
			newWinner := winnerID(filtered, a.spec, modified)
			if newWinner == "" || newWinner == currentWinnerID {
				continue
			}

			direction := "decreases"
			if factor > 1 {
				direction = "increases"
			}
			percent := (factor - 1) * 100
			if percent < 0 {
				percent = -percent
			}
			switches = append(switches, WeightSwitch{
				Type:        "weight",
				Dimension:   dim,
				Factor:      factor,
				NewWinnerID: newWinner,
				Message: fmt.Sprintf("If %s importance %s ~%.0f%%, a different option becomes #1",
					dimensionDisplayNames[dim], direction, percent),
			})
			break // only the most sensitive switch per dimension
		}
	}
	return switches
}

// BudgetRelaxation tests each budget increase against the full unfiltered
// pool. Every tested increase yields exactly one entry, new winner or
// unchanged, unless the relaxed filter still admits nothing.
func (a *Analyzer) BudgetRelaxation(currentWinnerID string) []BudgetRelaxation {
	var out []BudgetRelaxation

	for _, increase := range budgetIncreases {
		relaxed := a.spec.WithBudget(a.spec.BudgetMax + increase)
		filtered := scoring.Filter(a.allListings, &relaxed)
		if len(filtered) == 0 {
			continue
		}

		ranked := scoring.Rank(filtered, &relaxed, relaxed.Weights)
		newWinner := ranked[0]

		if newWinner.Listing.ID != currentWinnerID {
			id := newWinner.Listing.ID
			out = append(out, BudgetRelaxation{
				Budget:      relaxed.BudgetMax,
				NewWinnerID: &id,
				Message: fmt.Sprintf("With +$%.0f budget ($%.0f total), '%s...' becomes the top pick",
					increase, relaxed.BudgetMax, truncate(newWinner.Listing.Title, 50)),
			})
		} else {
			out = append(out, BudgetRelaxation{
				Budget:  relaxed.BudgetMax,
				Message: fmt.Sprintf("With +$%.0f budget, the recommendation stays the same", increase),
			})
		}
	}
	return out
}

// Analyze runs both sweeps and classifies stability by counting every probe
// that changed the winner: 0 is high, 1-2 medium, 3+ low. The count includes
// switches beyond the reporting cap.
func (a *Analyzer) Analyze(filtered []catalog.Listing, currentWinnerID string) SensitivityResult {
	switches := a.WeightSensitivity(filtered, currentWinnerID)
	relaxations := a.BudgetRelaxation(currentWinnerID)

	budgetSwitches := 0
	for _, r := range relaxations {
		if r.NewWinnerID != nil {
			budgetSwitches++
		}
	}
	total := len(switches) + budgetSwitches

	stability := catalog.StabilityLow
	switch {
	case total == 0:
		stability = catalog.StabilityHigh
	case total <= 2:
		stability = catalog.StabilityMedium
	}

	if len(switches) > maxReportedSwitches {
		switches = switches[:maxReportedSwitches]
	}
	return SensitivityResult{
		Stability:        stability,
		SwitchConditions: switches,
		BudgetRelaxation: relaxations,
	}
}

// truncate shortens s to at most n characters, never splitting a rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
