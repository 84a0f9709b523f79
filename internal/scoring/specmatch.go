package scoring

import (
	"strings"

	"github.com/almastelek/Sourceror/internal/catalog"
)

// Matcher scores how well a listing's specs satisfy a free-text query for one
// product category. Implementations are pure and return scores in [0,1].
type Matcher interface {
	Category() string
	Match(query string, specs map[string]any) float64
}

// matchers is the category strategy registry. New categories register here
// without touching existing matchers.
var matchers = map[string]Matcher{
	"headphones": headphoneMatcher{},
	"monitors":   neutralMatcher{category: "monitors"},
}

// MatcherFor returns the matcher for a category tag, falling back to a
// neutral matcher for categories with no heuristic.
func MatcherFor(category string) Matcher {
	if m, ok := matchers[strings.ToLower(category)]; ok {
		return m
	}
	return neutralMatcher{category: category}
}

func scoreSpecMatch(l *catalog.Listing, spec *catalog.DecisionSpec) float64 {
	return MatcherFor(spec.Category).Match(strings.ToLower(spec.Query), l.Specs)
}

// headphoneMatcher is a keyword heuristic for the headphone category:
// wireless and noise-cancellation wants swing the score ±0.2, a form-factor
// match adds 0.1 with no penalty for mismatch.
type headphoneMatcher struct{}

func (headphoneMatcher) Category() string { return "headphones" }

func (headphoneMatcher) Match(query string, specs map[string]any) float64 {
	score := 0.5

	wantsWireless := strings.Contains(query, "wireless") || strings.Contains(query, "bluetooth")
	if wantsWireless {
		if specBool(specs, "wireless") {
			score += 0.2
		} else {
			score -= 0.2
		}
	}

	wantsANC := false
	for _, kw := range []string{"noise cancel", "noise-cancel", "anc", "noise cancelling"} {
		if strings.Contains(query, kw) {
			wantsANC = true
			break
		}
	}
	if wantsANC {
		if specBool(specs, "noise_canceling") {
			score += 0.2
		} else {
			score -= 0.2
		}
	}

	wantsOverEar := strings.Contains(query, "over-ear") || strings.Contains(query, "over ear")
	wantsInEar := strings.Contains(query, "earbud") || strings.Contains(query, "in-ear")
	if wantsOverEar && specBool(specs, "over_ear") {
		score += 0.1
	} else if wantsInEar && specBool(specs, "in_ear") {
		score += 0.1
	}

	return clamp(score, 0.0, 1.0)
}

// neutralMatcher returns a flat 0.5 for categories without a heuristic yet.
type neutralMatcher struct {
	category string
}

func (m neutralMatcher) Category() string { return m.category }

func (neutralMatcher) Match(string, map[string]any) float64 { return 0.5 }

func specBool(specs map[string]any, key string) bool {
	if specs == nil {
		return false
	}
	v, ok := specs[key].(bool)
	return ok && v
}
