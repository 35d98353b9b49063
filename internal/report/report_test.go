package report

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chemeconai/chemecon/internal/catalog"
	"github.com/chemeconai/chemecon/internal/economics"
)

func sampleInput() Input {
	return Input{
		ProjectName:    "Ethanol Plant",
		Author:         "Process Engineering",
		ProcessType:    "continuous",
		ProductionRate: 10000,
		OperatingHours: 8000,
		RawMaterials:   []string{"ethylene", "water"},
		Products:       []string{"ethanol"},
		Capital: &economics.CapitalBreakdown{
			TotalEquipmentCost:     2e6,
			TotalInstalledCost:     6e6,
			FixedCapitalInvestment: 9e6,
			WorkingCapital:         9e5,
			TotalCapitalInvestment: 9.9e6,
			PlantType:              "chemical",
		},
		Operating: &economics.OperatingBreakdown{
			TotalMaterialCost: 4e6,
			TotalUtilityCost:  1e6,
			TotalLaborCost:    1.5e6,
			MaintenanceCost:   3.6e5,
			Overhead:          economics.OverheadCosts{Total: 4.1e6},
			TotalAnnualCost:   1.096e7,
		},
		Profitability: &economics.ProfitabilityResult{
			NPV:            5e6,
			IRRPct:         18.0,
			PaybackPeriod:  4.1,
			ROIPct:         25.0,
			AnnualCashFlow: 2.4e6,
		},
		Sensitivity: []economics.SensitivityPoint{
			{Parameter: "annual_revenue", ChangePct: -20, NPV: -1e6, IRRPct: 8},
			{Parameter: "annual_revenue", ChangePct: 20, NPV: 1.1e7, IRRPct: 27},
		},
		AIInsights: "Utility integration could cut steam demand.",
	}
}

func TestGenerateFullReport(t *testing.T) {
	builder := NewBuilder(nil)
	generated, err := builder.Generate(sampleInput(), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if generated.ID == "" || generated.Format != "markdown" {
		t.Fatalf("unexpected report record: %+v", generated)
	}
	if generated.Title != "Ethanol Plant" {
		t.Fatalf("title = %q", generated.Title)
	}
	content := generated.Content
	for _, heading := range []string{
		"# Ethanol Plant",
		"## Executive Summary",
		"## Process Overview",
		"## Capital Investment",
		"## Operating Costs",
		"## Profitability Analysis",
		"## Sensitivity Analysis",
		"## AI Insights",
		"## Recommendations",
	} {
		if !strings.Contains(content, heading) {
			t.Fatalf("report missing %q", heading)
		}
	}
	if !strings.Contains(content, "APPROVED - Strong financial returns") {
		t.Fatal("expected approval verdict for NPV>0 and IRR>12%")
	}
	if !strings.Contains(content, "Capital intensity: $990.00 per annual tonne.") {
		t.Fatal("expected capital intensity line")
	}
	if !strings.Contains(content, "Utility integration could cut steam demand.") {
		t.Fatal("expected AI insights text")
	}
}

func TestGenerateSectionSelection(t *testing.T) {
	builder := NewBuilder(nil)
	generated, err := builder.Generate(sampleInput(), []string{SectionProfitability, SectionExecutiveSummary})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	content := generated.Content
	if !strings.Contains(content, "## Executive Summary") || !strings.Contains(content, "## Profitability Analysis") {
		t.Fatal("selected sections missing")
	}
	if strings.Contains(content, "## Capital Investment") {
		t.Fatal("unselected section present")
	}
	// canonical order: executive summary before profitability regardless of request order
	if strings.Index(content, "## Executive Summary") > strings.Index(content, "## Profitability Analysis") {
		t.Fatal("sections out of canonical order")
	}
	if _, err := builder.Generate(sampleInput(), []string{"appendix"}); err == nil {
		t.Fatal("expected error for unknown section")
	}
}

func TestVerdictThresholds(t *testing.T) {
	cases := []struct {
		name string
		p    *economics.ProfitabilityResult
		want string
	}{
		{"strong", &economics.ProfitabilityResult{NPV: 1, IRRPct: 12.1}, "APPROVED - Strong financial returns"},
		{"modest", &economics.ProfitabilityResult{NPV: 1, IRRPct: 12.0}, "CONDITIONAL - Positive NPV but modest returns"},
		{"negative", &economics.ProfitabilityResult{NPV: -1, IRRPct: 30}, "NOT RECOMMENDED - Negative NPV"},
		{"missing", nil, "INSUFFICIENT DATA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Verdict(tc.p); got != tc.want {
				t.Fatalf("verdict = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGenerateWithoutAnalyses(t *testing.T) {
	builder := NewBuilder(nil)
	generated, err := builder.Generate(Input{}, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if generated.Title != "Process Economics Analysis" {
		t.Fatalf("default title = %q", generated.Title)
	}
	if !strings.Contains(generated.Content, "Profitability analysis not yet available") {
		t.Fatal("expected placeholder in executive summary")
	}
	if strings.Contains(generated.Content, "## Capital Investment") {
		t.Fatal("capital section should be omitted without data")
	}
}

func TestSaveRequiresStore(t *testing.T) {
	builder := NewBuilder(nil)
	generated, err := builder.Generate(sampleInput(), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := builder.Save(context.Background(), generated); err == nil {
		t.Fatal("expected error without store")
	}
}

func TestSavePersistsThroughCatalog(t *testing.T) {
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	builder := NewBuilder(store)
	generated, err := builder.Generate(sampleInput(), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := builder.Save(context.Background(), generated); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.ReportByID(context.Background(), generated.ID)
	if err != nil {
		t.Fatalf("report by id: %v", err)
	}
	if loaded.Content != generated.Content {
		t.Fatal("stored content differs")
	}
}
