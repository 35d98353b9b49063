package economics

import (
	"fmt"
	"math"
)

// NPV discounts the cash flow series at the given rate. Index 0 is year zero
// and is not discounted.
func NPV(cashFlows []float64, discountRate float64) float64 {
	var npv float64
	for i, cf := range cashFlows {
		npv += cf / math.Pow(1+discountRate, float64(i))
	}
	return npv
}

// IRR solves for the internal rate of return with Newton-Raphson iteration.
// The rate is floored at -99% to keep the discount factor defined.
func IRR(cashFlows []float64) (float64, error) {
	const (
		maxIterations = 1000
		tolerance     = 1e-6
	)
	if len(cashFlows) < 2 {
		return 0, fmt.Errorf("irr requires at least 2 cash flows")
	}
	rate := 0.1
	for i := 0; i < maxIterations; i++ {
		var npv, dnpv float64
		for j, cf := range cashFlows {
			npv += cf / math.Pow(1+rate, float64(j))
			if j > 0 {
				dnpv += -float64(j) * cf / math.Pow(1+rate, float64(j+1))
			}
		}
		if math.Abs(npv) < tolerance {
			return rate, nil
		}
		if math.Abs(dnpv) < tolerance {
			break
		}
		rate -= npv / dnpv
		if rate < -0.99 {
			rate = -0.99
		}
	}
	return rate, nil
}

// PaybackPeriod returns the years needed for cumulative cash flows to recover
// the initial investment, interpolating within the recovery year. When the
// investment is not recovered in the series, the remainder is extrapolated at
// the final year's cash flow.
func PaybackPeriod(initialInvestment float64, annualCashFlows []float64) (float64, error) {
	if len(annualCashFlows) == 0 {
		return 0, fmt.Errorf("payback requires at least one annual cash flow")
	}
	var cumulative float64
	for year, cf := range annualCashFlows {
		cumulative += cf
		if cumulative >= initialInvestment {
			excess := cumulative - initialInvestment
			fraction := excess / cf
			return float64(year+1) - fraction, nil
		}
	}
	last := annualCashFlows[len(annualCashFlows)-1]
	if last <= 0 {
		return 0, fmt.Errorf("investment not recovered and final cash flow is not positive")
	}
	return float64(len(annualCashFlows)) + (initialInvestment-cumulative)/last, nil
}

// ROI is the annual profit over the investment, as a percentage.
func ROI(profit, investment float64) (float64, error) {
	if investment == 0 {
		return 0, fmt.Errorf("investment cannot be zero")
	}
	return profit / investment * 100, nil
}

// ScaleCost applies the power-law capacity scaling rule used for equipment
// cost estimation.
func ScaleCost(baseCost, baseCapacity, newCapacity, scalingFactor float64) (float64, error) {
	if baseCapacity <= 0 || newCapacity <= 0 {
		return 0, fmt.Errorf("capacities must be positive")
	}
	return baseCost * math.Pow(newCapacity/baseCapacity, scalingFactor), nil
}

// UpdateCostCEPCI escalates a historical cost to the current Chemical
// Engineering Plant Cost Index.
func UpdateCostCEPCI(baseCost, baseIndex, currentIndex float64) (float64, error) {
	if baseIndex <= 0 || currentIndex <= 0 {
		return 0, fmt.Errorf("cepci indices must be positive")
	}
	return baseCost * currentIndex / baseIndex, nil
}

// Escalate compounds a cost forward by the annual escalation rate.
func Escalate(baseCost float64, years int, rate float64) float64 {
	return baseCost * math.Pow(1+rate, float64(years))
}
