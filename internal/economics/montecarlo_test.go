package economics

import (
	"math"
	"math/rand/v2"
	"testing"
)

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 42))
}

func TestMonteCarloDeterministicWithSeed(t *testing.T) {
	distributions := map[string]Distribution{
		"annual_revenue": {Type: "normal", Mean: 6e6, Std: 5e5},
	}
	_, first, err := MonteCarlo(baseInputs(), distributions, 200, seededRand())
	if err != nil {
		t.Fatalf("monte carlo: %v", err)
	}
	_, second, err := MonteCarlo(baseInputs(), distributions, 200, seededRand())
	if err != nil {
		t.Fatalf("monte carlo: %v", err)
	}
	if first.MeanNPV != second.MeanNPV || first.NPVP50 != second.NPVP50 {
		t.Fatalf("seeded runs differ: %+v vs %+v", first, second)
	}
	if first.Runs != 200 {
		t.Fatalf("runs = %d, want 200", first.Runs)
	}
}

func TestMonteCarloSummaryOrdering(t *testing.T) {
	distributions := map[string]Distribution{
		"annual_revenue":         {Type: "triangular", Min: 4e6, Mode: 6e6, Max: 8e6},
		"annual_operating_costs": {Type: "uniform", Min: 2.5e6, Max: 3.5e6},
	}
	_, summary, err := MonteCarlo(baseInputs(), distributions, 500, seededRand())
	if err != nil {
		t.Fatalf("monte carlo: %v", err)
	}
	if !(summary.NPVP10 <= summary.NPVP50 && summary.NPVP50 <= summary.NPVP90) {
		t.Fatalf("percentiles out of order: %+v", summary)
	}
	if summary.ProbNPVPos < 0 || summary.ProbNPVPos > 1 {
		t.Fatalf("probability out of range: %f", summary.ProbNPVPos)
	}
}

func TestMonteCarloFixedDistribution(t *testing.T) {
	results, summary, err := MonteCarlo(baseInputs(), map[string]Distribution{
		"annual_revenue": {Type: "fixed", Mean: 6e6},
	}, 10, seededRand())
	if err != nil {
		t.Fatalf("monte carlo: %v", err)
	}
	expected, err := AnalyzeProfitability(baseInputs())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, r := range results {
		if math.Abs(r.NPV-expected.NPV) > 1e-6 {
			t.Fatalf("fixed draw npv = %f, want %f", r.NPV, expected.NPV)
		}
	}
	if summary.Failed != 0 {
		t.Fatalf("failed = %d, want 0", summary.Failed)
	}
}

func TestMonteCarloUnknownParameter(t *testing.T) {
	if _, _, err := MonteCarlo(baseInputs(), map[string]Distribution{
		"feed_pressure": {Type: "normal", Mean: 1, Std: 0.1},
	}, 10, seededRand()); err == nil {
		t.Fatal("expected error for unknown parameter")
	}
}

func TestMonteCarloCountsFailedDraws(t *testing.T) {
	// Capital fixed at zero makes every draw fail validation.
	_, summary, err := MonteCarlo(baseInputs(), map[string]Distribution{
		"capital_investment": {Type: "fixed", Mean: 0},
	}, 25, seededRand())
	if err != nil {
		t.Fatalf("monte carlo: %v", err)
	}
	if summary.Failed != 25 || summary.Runs != 0 {
		t.Fatalf("failed = %d runs = %d, want 25/0", summary.Failed, summary.Runs)
	}
}
