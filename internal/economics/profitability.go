package economics

import (
	"fmt"
	"math"
)

// ProfitabilityInputs define a single project scenario.
type ProfitabilityInputs struct {
	CapitalInvestment    float64 `json:"capital_investment"`
	AnnualRevenue        float64 `json:"annual_revenue"`
	AnnualOperatingCosts float64 `json:"annual_operating_costs"`
	ProjectLifetime      int     `json:"project_lifetime"`
	DiscountRate         float64 `json:"discount_rate"`
	TaxRate              float64 `json:"tax_rate"`
	SalvageValue         float64 `json:"salvage_value"`
}

func (in ProfitabilityInputs) validate() error {
	if in.CapitalInvestment <= 0 {
		return fmt.Errorf("capital investment must be positive")
	}
	if in.ProjectLifetime <= 0 {
		return fmt.Errorf("project lifetime must be positive")
	}
	if in.ProjectLifetime > 50 {
		return fmt.Errorf("project lifetime cannot exceed 50 years")
	}
	if in.DiscountRate < 0 || in.DiscountRate > 0.5 {
		return fmt.Errorf("discount rate must be between 0 and 0.5")
	}
	if in.TaxRate < 0 || in.TaxRate > 1 {
		return fmt.Errorf("tax rate must be between 0 and 1")
	}
	return nil
}

// ProfitabilityResult holds the standard capital budgeting metrics.
type ProfitabilityResult struct {
	NPV                 float64   `json:"npv"`
	IRRPct              float64   `json:"irr"`
	PaybackPeriod       float64   `json:"payback_period"`
	ROIPct              float64   `json:"roi"`
	ProfitabilityIndex  float64   `json:"profitability_index"`
	AnnualCashFlow      float64   `json:"annual_cash_flow"`
	TotalRevenue        float64   `json:"total_revenue"`
	TotalOperatingCosts float64   `json:"total_costs"`
	BreakEvenPrice      float64   `json:"break_even_price"`
	CashFlows           []float64 `json:"cash_flows,omitempty"`
}

// AnnualCashFlow computes the after-tax cash flow for one operating year,
// adding depreciation back as a non-cash charge.
func AnnualCashFlow(revenue, operatingCosts, taxes, depreciation float64) float64 {
	grossProfit := revenue - operatingCosts
	taxableIncome := grossProfit - depreciation
	return taxableIncome - taxes + depreciation
}

// AnalyzeProfitability builds the year-0..N cash flow table with straight-line
// depreciation, taxes only on positive taxable income, and salvage recovered
// in the final year, then derives NPV, IRR, payback, ROI, and the
// profitability index.
func AnalyzeProfitability(in ProfitabilityInputs) (ProfitabilityResult, error) {
	if err := in.validate(); err != nil {
		return ProfitabilityResult{}, err
	}
	depreciation := (in.CapitalInvestment - in.SalvageValue) / float64(in.ProjectLifetime)

	cashFlows := make([]float64, 0, in.ProjectLifetime+1)
	cashFlows = append(cashFlows, -in.CapitalInvestment)
	for year := 1; year <= in.ProjectLifetime; year++ {
		grossProfit := in.AnnualRevenue - in.AnnualOperatingCosts
		taxableIncome := grossProfit - depreciation
		taxes := math.Max(0, taxableIncome*in.TaxRate)
		cf := taxableIncome - taxes + depreciation
		if year == in.ProjectLifetime {
			cf += in.SalvageValue
		}
		cashFlows = append(cashFlows, cf)
	}

	npv := NPV(cashFlows, in.DiscountRate)
	irr, err := IRR(cashFlows)
	if err != nil {
		return ProfitabilityResult{}, err
	}
	payback, err := PaybackPeriod(in.CapitalInvestment, cashFlows[1:])
	if err != nil {
		return ProfitabilityResult{}, err
	}
	roi, err := ROI(in.AnnualRevenue-in.AnnualOperatingCosts, in.CapitalInvestment)
	if err != nil {
		return ProfitabilityResult{}, err
	}

	margin := in.AnnualRevenue - in.AnnualOperatingCosts
	var breakEven float64
	if margin > 0 {
		breakEven = in.AnnualOperatingCosts / (in.AnnualRevenue / margin)
	}

	return ProfitabilityResult{
		NPV:                 npv,
		IRRPct:              irr * 100,
		PaybackPeriod:       payback,
		ROIPct:              roi,
		ProfitabilityIndex:  (npv + in.CapitalInvestment) / in.CapitalInvestment,
		AnnualCashFlow:      cashFlows[1],
		TotalRevenue:        in.AnnualRevenue * float64(in.ProjectLifetime),
		TotalOperatingCosts: in.AnnualOperatingCosts * float64(in.ProjectLifetime),
		BreakEvenPrice:      breakEven,
		CashFlows:           cashFlows,
	}, nil
}

// SensitivityPoint is one perturbed scenario in a sensitivity sweep.
type SensitivityPoint struct {
	Parameter     string  `json:"parameter"`
	ChangePct     float64 `json:"change_percent"`
	NPV           float64 `json:"npv"`
	IRRPct        float64 `json:"irr"`
	PaybackPeriod float64 `json:"payback_period"`
}

// Sensitivity re-runs the profitability analysis with each named parameter
// perturbed by the given percentage changes. Unknown parameter names are
// rejected so that a typo does not silently produce a flat line.
func Sensitivity(base ProfitabilityInputs, ranges map[string][]float64) ([]SensitivityPoint, error) {
	var points []SensitivityPoint
	for parameter, changes := range ranges {
		for _, changePct := range changes {
			perturbed := base
			factor := 1 + changePct/100
			switch parameter {
			case "capital_investment":
				perturbed.CapitalInvestment = base.CapitalInvestment * factor
			case "annual_revenue":
				perturbed.AnnualRevenue = base.AnnualRevenue * factor
			case "annual_operating_costs":
				perturbed.AnnualOperatingCosts = base.AnnualOperatingCosts * factor
			case "discount_rate":
				perturbed.DiscountRate = base.DiscountRate * factor
			default:
				return nil, fmt.Errorf("unknown sensitivity parameter %q", parameter)
			}
			result, err := AnalyzeProfitability(perturbed)
			if err != nil {
				return nil, fmt.Errorf("sensitivity %s %+.0f%%: %w", parameter, changePct, err)
			}
			points = append(points, SensitivityPoint{
				Parameter:     parameter,
				ChangePct:     changePct,
				NPV:           result.NPV,
				IRRPct:        result.IRRPct,
				PaybackPeriod: result.PaybackPeriod,
			})
		}
	}
	return points, nil
}
