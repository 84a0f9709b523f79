package recommend

import (
	"github.com/almastelek/Sourceror/internal/catalog"
	"github.com/almastelek/Sourceror/internal/scoring"
)

// Label tags which weight profile produced a recommendation.
type Label string

const (
	LabelOverall Label = "overall"
	LabelValue   Label = "value"
	LabelLowRisk Label = "low_risk"
)

// Recommendation is one shortlisted pick with its explanation.
type Recommendation struct {
	Label      Label                   `json:"label"`
	Listing    catalog.Listing         `json:"listing"`
	Scores     scoring.ComponentScores `json:"scores"`
	TotalScore float64                 `json:"total_score"`
	Why        []string                `json:"why"`
	Tradeoff   string                  `json:"tradeoff"`
}

// WeightSwitch describes a weight perturbation that changes the winner.
type WeightSwitch struct {
	Type        string  `json:"type"`
	Dimension   string  `json:"dimension"`
	Factor      float64 `json:"factor"`
	NewWinnerID string  `json:"new_winner_id"`
	Message     string  `json:"message"`
}

// BudgetRelaxation describes the outcome of one tested budget increase. A nil
// NewWinnerID means the winner held.
type BudgetRelaxation struct {
	Budget      float64 `json:"budget"`
	NewWinnerID *string `json:"new_winner_id"`
	Message     string  `json:"message"`
}

// SensitivityResult classifies how fragile the current winner is.
type SensitivityResult struct {
	Stability        catalog.Stability  `json:"stability"`
	SwitchConditions []WeightSwitch     `json:"switch_conditions"`
	BudgetRelaxation []BudgetRelaxation `json:"budget_relaxation"`
}

// Debug carries pipeline diagnostics back to the caller.
type Debug struct {
	CandidatesConsidered  int      `json:"candidates_considered"`
	CandidatesAfterFilter int      `json:"candidates_after_filter"`
	SourcesUsed           []string `json:"sources_used"`
	Errors                []string `json:"errors"`
}

// Result is the complete output of one recommendation request.
type Result struct {
	DecisionSpec    catalog.DecisionSpec    `json:"decision_spec"`
	Top3            []Recommendation        `json:"top3"`
	RankedShortlist []scoring.ScoredListing `json:"ranked_shortlist"`
	Sensitivity     SensitivityResult       `json:"sensitivity"`
	Debug           Debug                   `json:"debug"`
}
