package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/almastelek/Sourceror/internal/catalog"
)

// Decision is one logged recommendation request and its outcome, kept for
// diagnostics and replay. The engine itself never reads these back.
type Decision struct {
	ID                    uuid.UUID         `json:"decision_id"`
	Category              string            `json:"category"`
	Query                 string            `json:"query"`
	BudgetMax             float64           `json:"budget_max"`
	Stability             catalog.Stability `json:"stability"`
	CandidatesConsidered  int               `json:"candidates_considered"`
	CandidatesAfterFilter int               `json:"candidates_after_filter"`
	PickCount             int               `json:"pick_count"`

	// Full request and response payloads, stored as JSON documents.
	Spec   map[string]interface{} `json:"spec,omitempty"`
	Result map[string]interface{} `json:"result,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// DecisionFilter narrows ListDecisions.
type DecisionFilter struct {
	Category string
	Limit    int
}

// Store persists decision records.
type Store interface {
	SaveDecision(ctx context.Context, d *Decision) error
	GetDecision(ctx context.Context, id uuid.UUID) (*Decision, error)
	ListDecisions(ctx context.Context, filter DecisionFilter) ([]*Decision, error)
	Close() error
}
