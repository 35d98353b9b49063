package economics

import (
	"math"
	"testing"
)

func TestNPV(t *testing.T) {
	flows := []float64{-1000, 500, 500, 500}
	npv := NPV(flows, 0.1)
	want := -1000 + 500/1.1 + 500/(1.1*1.1) + 500/(1.1*1.1*1.1)
	if math.Abs(npv-want) > 1e-9 {
		t.Fatalf("npv = %f, want %f", npv, want)
	}
	if got := NPV(flows, 0); math.Abs(got-500) > 1e-9 {
		t.Fatalf("undiscounted npv = %f, want 500", got)
	}
}

func TestIRRMatchesKnownRate(t *testing.T) {
	// A 3-year annuity of 500 against 1000 invested has IRR ~23.375%.
	irr, err := IRR([]float64{-1000, 500, 500, 500})
	if err != nil {
		t.Fatalf("irr: %v", err)
	}
	if math.Abs(irr-0.23375) > 0.001 {
		t.Fatalf("irr = %f, want ~0.23375", irr)
	}
	// Cross-check: NPV at the solved rate is zero.
	if npv := NPV([]float64{-1000, 500, 500, 500}, irr); math.Abs(npv) > 1e-3 {
		t.Fatalf("npv at irr = %f, want ~0", npv)
	}
}

func TestIRRValidation(t *testing.T) {
	if _, err := IRR([]float64{-1000}); err == nil {
		t.Fatal("expected error for too-short series")
	}
}

func TestPaybackPeriodInterpolates(t *testing.T) {
	payback, err := PaybackPeriod(1000, []float64{400, 400, 400})
	if err != nil {
		t.Fatalf("payback: %v", err)
	}
	if math.Abs(payback-2.5) > 1e-9 {
		t.Fatalf("payback = %f, want 2.5", payback)
	}
}

func TestPaybackPeriodExtrapolates(t *testing.T) {
	payback, err := PaybackPeriod(1000, []float64{200, 200})
	if err != nil {
		t.Fatalf("payback: %v", err)
	}
	if math.Abs(payback-5.0) > 1e-9 {
		t.Fatalf("payback = %f, want 5", payback)
	}
	if _, err := PaybackPeriod(1000, []float64{200, -50}); err == nil {
		t.Fatal("expected error when final cash flow is not positive")
	}
}

func TestROI(t *testing.T) {
	roi, err := ROI(250, 1000)
	if err != nil {
		t.Fatalf("roi: %v", err)
	}
	if roi != 25 {
		t.Fatalf("roi = %f, want 25", roi)
	}
	if _, err := ROI(100, 0); err == nil {
		t.Fatal("expected error for zero investment")
	}
}

func TestScaleCost(t *testing.T) {
	cost, err := ScaleCost(100000, 10, 20, 0.6)
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	want := 100000 * math.Pow(2, 0.6)
	if math.Abs(cost-want) > 1e-6 {
		t.Fatalf("scaled cost = %f, want %f", cost, want)
	}
	if _, err := ScaleCost(100000, 0, 20, 0.6); err == nil {
		t.Fatal("expected error for zero base capacity")
	}
}

func TestUpdateCostCEPCI(t *testing.T) {
	cost, err := UpdateCostCEPCI(100000, 596.2, 800)
	if err != nil {
		t.Fatalf("cepci update: %v", err)
	}
	if math.Abs(cost-100000*800/596.2) > 1e-6 {
		t.Fatalf("updated cost = %f", cost)
	}
	if _, err := UpdateCostCEPCI(100000, 0, 800); err == nil {
		t.Fatal("expected error for zero base index")
	}
}

func TestEscalate(t *testing.T) {
	if got := Escalate(1000, 2, 0.03); math.Abs(got-1000*1.03*1.03) > 1e-9 {
		t.Fatalf("escalated = %f", got)
	}
}
