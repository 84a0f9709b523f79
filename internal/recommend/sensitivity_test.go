package recommend

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/almastelek/Sourceror/internal/catalog"
	"github.com/almastelek/Sourceror/internal/scoring"
)

// contestedPool holds a premium retail listing that wins on trust and a cheap
// marketplace listing that overtakes it once price weight grows.
func contestedPool() []catalog.Listing {
	return []catalog.Listing{
		{ID: "cheap", Source: catalog.SourceEbay, Title: "Budget Headphones", TotalCost: 60},
		{
			ID: "premium", Source: catalog.SourceBestBuy, Title: "Sony WH-1000XM5 Wireless Headphones",
			TotalCost:  90,
			ETAMinDays: intPtr(1), ETAMaxDays: intPtr(2),
			WarrantyMonths: intPtr(24),
		},
	}
}

func TestWeightSensitivityFindsPriceFlip(t *testing.T) {
	spec := baseSpec()
	pool := contestedPool()
	filtered := scoring.Filter(pool, &spec)

	winner := winnerID(filtered, &spec, spec.Weights)
	if winner != "premium" {
		t.Fatalf("expected premium to win at base weights, got %s", winner)
	}

	switches := NewAnalyzer(&spec, pool).WeightSensitivity(filtered, winner)
	if len(switches) != 1 {
		t.Fatalf("expected exactly 1 switch, got %d: %+v", len(switches), switches)
	}

	sw := switches[0]
	if sw.Dimension != catalog.DimPrice {
		t.Errorf("expected price flip, got %s", sw.Dimension)
	}
	if sw.Factor <= 1 {
		t.Errorf("expected an increase factor, got %f", sw.Factor)
	}
	if sw.NewWinnerID != "cheap" {
		t.Errorf("expected cheap to take over, got %s", sw.NewWinnerID)
	}
	if !strings.Contains(sw.Message, "Price importance increases") {
		t.Errorf("unexpected message: %q", sw.Message)
	}
}

func TestBudgetRelaxationRevealsBetterPick(t *testing.T) {
	spec := baseSpec()
	spec.BudgetMax = 100

	pool := []catalog.Listing{
		{ID: "in-budget", Source: catalog.SourceEbay, Title: "Affordable Headphones", TotalCost: 90},
		{
			ID: "premium", Source: catalog.SourceBestBuy, Title: "Sony WH-1000XM5 Wireless Noise Cancelling Headphones",
			TotalCost:  130,
			ETAMinDays: intPtr(1), ETAMaxDays: intPtr(2),
			WarrantyMonths: intPtr(24),
		},
	}

	relaxations := NewAnalyzer(&spec, pool).BudgetRelaxation("in-budget")
	if len(relaxations) != 3 {
		t.Fatalf("expected one entry per tested increase, got %d", len(relaxations))
	}

	first := relaxations[0]
	if first.Budget != 150 {
		t.Errorf("expected relaxed budget 150, got %f", first.Budget)
	}
	if first.NewWinnerID == nil || *first.NewWinnerID != "premium" {
		t.Errorf("expected premium to become the winner, got %+v", first.NewWinnerID)
	}
	if !strings.Contains(first.Message, "With +$50 budget ($150 total)") {
		t.Errorf("unexpected message: %q", first.Message)
	}
	// Titles longer than 50 characters are truncated in the message.
	if strings.Contains(first.Message, pool[1].Title) {
		t.Errorf("expected truncated title in message: %q", first.Message)
	}
}

func TestBudgetRelaxationUnchangedWinner(t *testing.T) {
	spec := baseSpec()
	pool := contestedPool()
	filtered := scoring.Filter(pool, &spec)
	winner := winnerID(filtered, &spec, spec.Weights)

	relaxations := NewAnalyzer(&spec, pool).BudgetRelaxation(winner)
	if len(relaxations) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(relaxations))
	}
	for _, r := range relaxations {
		if r.NewWinnerID != nil {
			t.Errorf("budget %f: expected unchanged winner, got %s", r.Budget, *r.NewWinnerID)
		}
		if !strings.Contains(r.Message, "stays the same") {
			t.Errorf("unexpected message: %q", r.Message)
		}
	}
}

func TestBudgetRelaxationSkipsEmptyPools(t *testing.T) {
	spec := baseSpec()
	spec.BudgetMax = 100
	pool := []catalog.Listing{
		{ID: "unreachable", Source: catalog.SourceEbay, TotalCost: 1000},
	}

	relaxations := NewAnalyzer(&spec, pool).BudgetRelaxation("")
	if len(relaxations) != 0 {
		t.Errorf("expected no entries when every relaxed pool is empty, got %d", len(relaxations))
	}
}

func TestAnalyzeStability(t *testing.T) {
	t.Run("lone candidate is high stability", func(t *testing.T) {
		spec := baseSpec()
		pool := []catalog.Listing{
			{ID: "only", Source: catalog.SourceEbay, TotalCost: 90},
		}
		res := NewAnalyzer(&spec, pool).Analyze(pool, "only")
		if res.Stability != catalog.StabilityHigh {
			t.Errorf("expected high stability, got %s", res.Stability)
		}
		if len(res.SwitchConditions) != 0 {
			t.Errorf("expected no switches, got %d", len(res.SwitchConditions))
		}
	})

	t.Run("single flip is medium stability", func(t *testing.T) {
		spec := baseSpec()
		pool := contestedPool()
		filtered := scoring.Filter(pool, &spec)
		winner := winnerID(filtered, &spec, spec.Weights)

		res := NewAnalyzer(&spec, pool).Analyze(filtered, winner)
		if res.Stability != catalog.StabilityMedium {
			t.Errorf("expected medium stability, got %s", res.Stability)
		}
	})
}

func TestAnalyzeDeterministic(t *testing.T) {
	spec := baseSpec()
	pool := contestedPool()
	filtered := scoring.Filter(pool, &spec)
	winner := winnerID(filtered, &spec, spec.Weights)

	a := NewAnalyzer(&spec, pool)
	first := a.Analyze(filtered, winner)
	second := a.Analyze(filtered, winner)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("analysis differs between identical runs:\n%+v\n%+v", first, second)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 50); got != "short" {
		t.Errorf("short strings should pass through, got %q", got)
	}
	long := strings.Repeat("x", 60)
	if got := truncate(long, 50); len(got) != 50 {
		t.Errorf("expected 50 chars, got %d", len(got))
	}

	// Multi-byte runes at the cut point must not be split.
	accented := strings.Repeat("é", 60)
	got := truncate(accented, 50)
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 50 {
		t.Errorf("expected 50 runes, got %d", utf8.RuneCountInString(got))
	}
}
