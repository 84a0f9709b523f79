package catalog

import (
	"fmt"
	"strings"
)

// RiskTolerance controls how hard unknown listing fields are penalized.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// DeliveryPriority is carried on the spec for explanation purposes; scoring
// math does not read it directly.
type DeliveryPriority string

const (
	DeliveryLow    DeliveryPriority = "low"
	DeliveryMedium DeliveryPriority = "medium"
	DeliveryHigh   DeliveryPriority = "high"
)

// Stability classifies how fragile the winning pick is to small input changes.
type Stability string

const (
	StabilityHigh   Stability = "high"
	StabilityMedium Stability = "medium"
	StabilityLow    Stability = "low"
)

// DecisionSpec is the complete statement of the buyer's criteria for one
// recommendation request. Constructed once per request, read-only thereafter.
type DecisionSpec struct {
	Category         string           `json:"category"`
	Query            string           `json:"query"`
	BudgetMax        float64          `json:"budget_max"`
	ConditionAllowed []Condition      `json:"condition_allowed"`
	MaxDeliveryDays  *int             `json:"max_delivery_days,omitempty"`
	DeliveryPriority DeliveryPriority `json:"delivery_priority"`
	RiskTolerance    RiskTolerance    `json:"risk_tolerance"`
	Weights          WeightVector     `json:"weights"`
	UserLocationZip  string           `json:"user_location_zip,omitempty"`
}

// ConditionAllows reports whether the given condition passes the spec's
// condition constraint. An unknown (nil) condition always passes.
func (s *DecisionSpec) ConditionAllows(c *Condition) bool {
	if c == nil {
		return true
	}
	for _, allowed := range s.ConditionAllowed {
		if allowed == *c {
			return true
		}
	}
	return false
}

// WithBudget returns a copy of the spec with a different budget ceiling.
func (s *DecisionSpec) WithBudget(budgetMax float64) DecisionSpec {
	out := *s
	out.BudgetMax = budgetMax
	out.ConditionAllowed = append([]Condition(nil), s.ConditionAllowed...)
	return out
}

// Validate rejects malformed specs before the engine runs. Failures are
// caller errors, never silently coerced.
func (s *DecisionSpec) Validate() error {
	if strings.TrimSpace(s.Query) == "" {
		return fmt.Errorf("query must not be empty")
	}
	if s.BudgetMax <= 0 {
		return fmt.Errorf("budget_max must be positive, got %.2f", s.BudgetMax)
	}
	for _, c := range s.ConditionAllowed {
		if _, ok := ParseCondition(string(c)); !ok {
			return fmt.Errorf("unknown condition token %q", c)
		}
	}
	switch s.RiskTolerance {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		return fmt.Errorf("unknown risk tolerance %q", s.RiskTolerance)
	}
	switch s.DeliveryPriority {
	case DeliveryLow, DeliveryMedium, DeliveryHigh:
	default:
		return fmt.Errorf("unknown delivery priority %q", s.DeliveryPriority)
	}
	if s.MaxDeliveryDays != nil && *s.MaxDeliveryDays < 1 {
		return fmt.Errorf("max_delivery_days must be at least 1")
	}
	return s.Weights.Validate()
}
