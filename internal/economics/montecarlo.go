package economics

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// Distribution describes how a parameter varies across simulations.
type Distribution struct {
	Type string  `json:"type"` // normal, triangular, uniform, fixed
	Mean float64 `json:"mean,omitempty"`
	Std  float64 `json:"std,omitempty"`
	Min  float64 `json:"min,omitempty"`
	Mode float64 `json:"mode,omitempty"`
	Max  float64 `json:"max,omitempty"`
}

// SimulationResult is the metric set from one Monte Carlo draw.
type SimulationResult struct {
	Simulation    int     `json:"simulation"`
	NPV           float64 `json:"npv"`
	IRRPct        float64 `json:"irr"`
	PaybackPeriod float64 `json:"payback_period"`
	ROIPct        float64 `json:"roi"`
}

// SimulationSummary aggregates a Monte Carlo run.
type SimulationSummary struct {
	Runs       int     `json:"runs"`
	Failed     int     `json:"failed"`
	MeanNPV    float64 `json:"mean_npv"`
	NPVP10     float64 `json:"npv_p10"`
	NPVP50     float64 `json:"npv_p50"`
	NPVP90     float64 `json:"npv_p90"`
	ProbNPVPos float64 `json:"prob_npv_positive"`
}

// MonteCarlo runs n simulations of the profitability analysis with the given
// parameter distributions overlaid on the base inputs. Samples are clamped
// non-negative; draws whose analysis fails (for example zero capital) are
// counted and skipped.
func MonteCarlo(base ProfitabilityInputs, distributions map[string]Distribution, n int, rng *rand.Rand) ([]SimulationResult, SimulationSummary, error) {
	if n <= 0 {
		n = 1000
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	for parameter := range distributions {
		switch parameter {
		case "capital_investment", "annual_revenue", "annual_operating_costs", "discount_rate", "salvage_value":
		default:
			return nil, SimulationSummary{}, fmt.Errorf("unknown simulation parameter %q", parameter)
		}
	}

	results := make([]SimulationResult, 0, n)
	failed := 0
	for i := 0; i < n; i++ {
		inputs := base
		for parameter, dist := range distributions {
			value := math.Max(0, sample(dist, rng))
			switch parameter {
			case "capital_investment":
				inputs.CapitalInvestment = value
			case "annual_revenue":
				inputs.AnnualRevenue = value
			case "annual_operating_costs":
				inputs.AnnualOperatingCosts = value
			case "discount_rate":
				inputs.DiscountRate = math.Min(value, 0.5)
			case "salvage_value":
				inputs.SalvageValue = value
			}
		}
		result, err := AnalyzeProfitability(inputs)
		if err != nil {
			failed++
			continue
		}
		results = append(results, SimulationResult{
			Simulation:    len(results) + 1,
			NPV:           result.NPV,
			IRRPct:        result.IRRPct,
			PaybackPeriod: result.PaybackPeriod,
			ROIPct:        result.ROIPct,
		})
	}
	return results, summarize(results, failed), nil
}

func sample(dist Distribution, rng *rand.Rand) float64 {
	switch dist.Type {
	case "normal":
		return dist.Mean + dist.Std*rng.NormFloat64()
	case "triangular":
		return sampleTriangular(dist.Min, dist.Mode, dist.Max, rng)
	case "uniform":
		return dist.Min + (dist.Max-dist.Min)*rng.Float64()
	default:
		return dist.Mean
	}
}

func sampleTriangular(min, mode, max float64, rng *rand.Rand) float64 {
	if max <= min {
		return min
	}
	u := rng.Float64()
	cut := (mode - min) / (max - min)
	if u < cut {
		return min + math.Sqrt(u*(max-min)*(mode-min))
	}
	return max - math.Sqrt((1-u)*(max-min)*(max-mode))
}

func summarize(results []SimulationResult, failed int) SimulationSummary {
	summary := SimulationSummary{Runs: len(results), Failed: failed}
	if len(results) == 0 {
		return summary
	}
	npvs := make([]float64, len(results))
	positives := 0
	var sum float64
	for i, r := range results {
		npvs[i] = r.NPV
		sum += r.NPV
		if r.NPV > 0 {
			positives++
		}
	}
	sort.Float64s(npvs)
	summary.MeanNPV = sum / float64(len(npvs))
	summary.NPVP10 = percentile(npvs, 0.10)
	summary.NPVP50 = percentile(npvs, 0.50)
	summary.NPVP90 = percentile(npvs, 0.90)
	summary.ProbNPVPos = float64(positives) / float64(len(npvs))
	return summary
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := p * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
