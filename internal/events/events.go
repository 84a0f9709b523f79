package events

import "time"

const (
	StreamName   = "SOURCEROR_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectDecisionCompleted(decisionID string) string {
	return "sourceror.decision." + decisionID + ".completed"
}

func SubjectFetchFailed(source string) string {
	return "sourceror.fetch." + source + ".failed"
}

// DecisionCompletedEvent is published after every recommendation request.
type DecisionCompletedEvent struct {
	DecisionID            string    `json:"decision_id"`
	Category              string    `json:"category"`
	Query                 string    `json:"query"`
	BudgetMax             float64   `json:"budget_max"`
	Stability             string    `json:"stability"`
	CandidatesConsidered  int       `json:"candidates_considered"`
	CandidatesAfterFilter int       `json:"candidates_after_filter"`
	PickCount             int       `json:"pick_count"`
	SourcesUsed           []string  `json:"sources_used"`
	Timestamp             time.Time `json:"timestamp"`
}

// FetchFailedEvent is published when a marketplace source errors.
type FetchFailedEvent struct {
	Source    string    `json:"source"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}
