package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/almastelek/Sourceror/internal/catalog"
	"github.com/almastelek/Sourceror/internal/events"
	"github.com/almastelek/Sourceror/internal/recommend"
	"github.com/almastelek/Sourceror/internal/store"
)

// Supplier abstracts the candidate-supply boundary for the handler, so tests
// can feed canned listings without a network.
type Supplier interface {
	Fetch(ctx context.Context, spec *catalog.DecisionSpec) recommend.Supply
}

type RecommendationsHandler struct {
	engine   *recommend.Engine
	supplier Supplier
	store    store.Store   // nil disables decision logging
	events   events.Client // nil disables event publishing
	logger   *slog.Logger
}

func NewRecommendationsHandler(engine *recommend.Engine, supplier Supplier, s store.Store, ev events.Client, logger *slog.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{engine: engine, supplier: supplier, store: s, events: ev, logger: logger}
}

type RecommendationRequest struct {
	Category         string                `json:"category"`
	Query            string                `json:"query"`
	BudgetMax        float64               `json:"budget_max"`
	ConditionAllowed []string              `json:"condition_allowed,omitempty"`
	MaxDeliveryDays  *int                  `json:"max_delivery_days,omitempty"`
	DeliveryPriority string                `json:"delivery_priority,omitempty"`
	RiskTolerance    string                `json:"risk_tolerance,omitempty"`
	Weights          *catalog.WeightVector `json:"weights,omitempty"`
	UserLocationZip  string                `json:"user_location_zip,omitempty"`
}

func (req *RecommendationRequest) toSpec() catalog.DecisionSpec {
	spec := catalog.DecisionSpec{
		Category:         req.Category,
		Query:            req.Query,
		BudgetMax:        req.BudgetMax,
		MaxDeliveryDays:  req.MaxDeliveryDays,
		DeliveryPriority: catalog.DeliveryPriority(req.DeliveryPriority),
		RiskTolerance:    catalog.RiskTolerance(req.RiskTolerance),
		Weights:          catalog.DefaultWeights(),
		UserLocationZip:  req.UserLocationZip,
	}
	if spec.Category == "" {
		spec.Category = "headphones"
	}
	if spec.DeliveryPriority == "" {
		spec.DeliveryPriority = catalog.DeliveryMedium
	}
	if spec.RiskTolerance == "" {
		spec.RiskTolerance = catalog.RiskMedium
	}
	if req.Weights != nil {
		spec.Weights = *req.Weights
	}
	if req.ConditionAllowed == nil {
		spec.ConditionAllowed = []catalog.Condition{catalog.ConditionNew, catalog.ConditionRefurbished}
	} else {
		for _, c := range req.ConditionAllowed {
			spec.ConditionAllowed = append(spec.ConditionAllowed, catalog.Condition(c))
		}
	}
	return spec
}

// Create handles POST /recommendations: validate, fetch candidates, run the
// decision pipeline, then log and publish as side effects.
func (h *RecommendationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	spec := req.toSpec()
	if err := spec.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	supply := h.supplier.Fetch(r.Context(), &spec)
	result := h.engine.Produce(&spec, supply)

	decisionID := h.logDecision(r.Context(), &spec, result)
	h.publishCompleted(decisionID, &spec, result)

	writeJSON(w, http.StatusOK, result)
}

func (h *RecommendationsHandler) logDecision(ctx context.Context, spec *catalog.DecisionSpec, result *recommend.Result) string {
	if h.store == nil {
		return ""
	}
	d := &store.Decision{
		Category:              spec.Category,
		Query:                 spec.Query,
		BudgetMax:             spec.BudgetMax,
		Stability:             result.Sensitivity.Stability,
		CandidatesConsidered:  result.Debug.CandidatesConsidered,
		CandidatesAfterFilter: result.Debug.CandidatesAfterFilter,
		PickCount:             len(result.Top3),
		Spec:                  toDocument(spec),
		Result:                toDocument(result),
	}
	if err := h.store.SaveDecision(ctx, d); err != nil {
		h.logger.Warn("failed to log decision", "error", err)
		return ""
	}
	return d.ID.String()
}

func (h *RecommendationsHandler) publishCompleted(decisionID string, spec *catalog.DecisionSpec, result *recommend.Result) {
	if h.events == nil {
		return
	}
	evt := events.DecisionCompletedEvent{
		DecisionID:            decisionID,
		Category:              spec.Category,
		Query:                 spec.Query,
		BudgetMax:             spec.BudgetMax,
		Stability:             string(result.Sensitivity.Stability),
		CandidatesConsidered:  result.Debug.CandidatesConsidered,
		CandidatesAfterFilter: result.Debug.CandidatesAfterFilter,
		PickCount:             len(result.Top3),
		SourcesUsed:           result.Debug.SourcesUsed,
		Timestamp:             time.Now().UTC(),
	}
	if err := h.events.Publish(events.SubjectDecisionCompleted(decisionID), evt); err != nil {
		h.logger.Warn("failed to publish decision event", "error", err)
	}
}

func toDocument(v interface{}) map[string]interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return doc
}

// Category metadata for the UI.
type CategoryInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *RecommendationsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]CategoryInfo{
		"categories": {
			{
				ID:          "headphones",
				Name:        "Headphones",
				Description: "Over-ear, on-ear, and in-ear headphones including wireless and noise-canceling options",
			},
			{
				ID:          "monitors",
				Name:        "Monitors",
				Description: "Computer monitors including gaming, professional, and ultrawide options",
			},
		},
	})
}
