package recommend

import (
	"log/slog"

	"github.com/almastelek/Sourceror/internal/catalog"
	"github.com/almastelek/Sourceror/internal/scoring"
)

// shortlistSize caps the ranked shortlist returned for display.
const shortlistSize = 10

// Supply is the candidate-supply boundary contract: an already-deduplicated
// listing pool plus fetch diagnostics. An empty pool is valid input.
type Supply struct {
	Listings    []catalog.Listing
	SourcesUsed []string
	Errors      []string
}

// Engine runs the full decision pipeline: filter, rank, top-3 selection, and
// sensitivity analysis. It is stateless and side-effect-free per call; every
// output is a pure, reproducible function of (spec, supply).
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Produce executes the pipeline for one request. The empty-filter case is a
// normal outcome: empty top3 and shortlist, a quiet high-stability
// sensitivity result, and an explanatory debug message.
func (e *Engine) Produce(spec *catalog.DecisionSpec, supply Supply) *Result {
	filtered := scoring.Filter(supply.Listings, spec)

	debug := Debug{
		CandidatesConsidered:  len(supply.Listings),
		CandidatesAfterFilter: len(filtered),
		SourcesUsed:           supply.SourcesUsed,
		Errors:                supply.Errors,
	}
	if debug.SourcesUsed == nil {
		debug.SourcesUsed = []string{}
	}
	if debug.Errors == nil {
		debug.Errors = []string{}
	}

	if len(filtered) == 0 {
		e.logger.Info("no candidates passed constraints",
			"category", spec.Category,
			"budget_max", spec.BudgetMax,
			"considered", debug.CandidatesConsidered,
		)
		debug.Errors = append(debug.Errors,
			"No products found matching your criteria. Try increasing budget or broadening search.")
		return &Result{
			DecisionSpec:    *spec,
			Top3:            []Recommendation{},
			RankedShortlist: []scoring.ScoredListing{},
			Sensitivity: SensitivityResult{
				Stability:        catalog.StabilityHigh,
				SwitchConditions: []WeightSwitch{},
				BudgetRelaxation: []BudgetRelaxation{},
			},
			Debug: debug,
		}
	}

	ranked := scoring.Rank(filtered, spec, spec.Weights)
	shortlist := ranked
	if len(shortlist) > shortlistSize {
		shortlist = shortlist[:shortlistSize]
	}

	top3 := SelectTop3(filtered, spec)

	winner := ""
	if len(top3) > 0 {
		winner = top3[0].Listing.ID
	}
	sensitivity := NewAnalyzer(spec, supply.Listings).Analyze(filtered, winner)

	e.logger.Info("recommendations produced",
		"category", spec.Category,
		"considered", debug.CandidatesConsidered,
		"after_filter", debug.CandidatesAfterFilter,
		"picks", len(top3),
		"stability", sensitivity.Stability,
	)

	return &Result{
		DecisionSpec:    *spec,
		Top3:            top3,
		RankedShortlist: shortlist,
		Sensitivity:     sensitivity,
		Debug:           debug,
	}
}
