package economics

import (
	"fmt"
	"strings"
)

// RawMaterial is a feed material with its unit price and consumption per
// tonne of product.
type RawMaterial struct {
	Name            string  `json:"name"`
	PriceUSDPerKg   float64 `json:"price"`
	ConsumptionRate float64 `json:"consumption_rate"`
}

// UtilityDemand is an annual utility consumption in the utility's own unit.
type UtilityDemand struct {
	Type        string  `json:"type"`
	Consumption float64 `json:"consumption"`
}

// OperatingInputs collects everything needed for an annual operating cost
// estimate.
type OperatingInputs struct {
	RawMaterials           []RawMaterial   `json:"raw_materials"`
	Utilities              []UtilityDemand `json:"utilities"`
	LaborRequirements      map[string]int  `json:"labor_requirements"`
	ShiftsPerDay           int             `json:"shifts_per_day"`
	ProductionRate         float64         `json:"production_rate"`
	OperatingHours         int             `json:"operating_hours"`
	FixedCapitalInvestment float64         `json:"fixed_capital_investment"`
	MaintenanceFactor      float64         `json:"maintenance_factor"`
	OverheadFactor         float64         `json:"overhead_factor"`
}

// MaterialCost is the annual cost line for one raw material.
type MaterialCost struct {
	ConsumptionRate   float64 `json:"consumption_rate"`
	AnnualConsumption float64 `json:"annual_consumption"`
	UnitPrice         float64 `json:"unit_price"`
	AnnualCost        float64 `json:"annual_cost"`
}

// UtilityCost is the annual cost line for one utility.
type UtilityCost struct {
	Consumption float64 `json:"consumption"`
	UnitPrice   float64 `json:"unit_price"`
	AnnualCost  float64 `json:"annual_cost"`
}

// LaborCost is the annual cost line for one labor position.
type LaborCost struct {
	PeoplePerShift int     `json:"people_per_shift"`
	TotalPeople    int     `json:"total_people"`
	HourlyRate     float64 `json:"hourly_rate"`
	AnnualHours    float64 `json:"annual_hours"`
	AnnualCost     float64 `json:"annual_cost"`
}

// OverheadCosts splits overhead into its standard categories.
type OverheadCosts struct {
	Administrative      float64 `json:"administrative"`
	SalesMarketing      float64 `json:"sales_marketing"`
	ResearchDevelopment float64 `json:"research_development"`
	GeneralOverhead     float64 `json:"general_overhead"`
	Total               float64 `json:"total_overhead_cost"`
}

// OperatingBreakdown is the full annual operating cost estimate.
type OperatingBreakdown struct {
	Materials         map[string]MaterialCost `json:"materials"`
	TotalMaterialCost float64                 `json:"total_raw_material_cost"`
	Utilities         map[string]UtilityCost  `json:"utilities"`
	TotalUtilityCost  float64                 `json:"total_utility_cost"`
	Labor             map[string]LaborCost    `json:"labor"`
	TotalLaborCost    float64                 `json:"total_labor_cost"`
	MaintenanceCost   float64                 `json:"maintenance_cost"`
	Overhead          OverheadCosts           `json:"overhead"`
	TotalAnnualCost   float64                 `json:"total_annual_operating_cost"`
}

// OperatingCalculator prices utilities and labor from its rate tables.
type OperatingCalculator struct {
	utilityPrices map[string]float64
	laborRates    map[string]float64
}

// NewOperatingCalculator builds a calculator with the default US Gulf Coast
// utility prices and labor rates. Callers with regional data override via the
// With* setters.
func NewOperatingCalculator() *OperatingCalculator {
	return &OperatingCalculator{
		utilityPrices: map[string]float64{
			"electricity":           0.08,
			"steam_low_pressure":    15.0,
			"steam_medium_pressure": 18.0,
			"steam_high_pressure":   22.0,
			"cooling_water":         0.05,
			"process_water":         0.50,
			"natural_gas":           8.0,
			"compressed_air":        0.20,
		},
		laborRates: map[string]float64{
			"operator":    35.0,
			"supervisor":  50.0,
			"maintenance": 40.0,
			"engineer":    60.0,
		},
	}
}

// WithUtilityPrice overrides the unit price for a utility type.
func (c *OperatingCalculator) WithUtilityPrice(utilityType string, price float64) *OperatingCalculator {
	c.utilityPrices[strings.ToLower(utilityType)] = price
	return c
}

// WithLaborRate overrides the hourly rate for a position.
func (c *OperatingCalculator) WithLaborRate(position string, rate float64) *OperatingCalculator {
	c.laborRates[strings.ToLower(position)] = rate
	return c
}

// Calculate produces the complete annual operating cost breakdown. Utility
// types and labor positions without a configured rate are skipped.
func (c *OperatingCalculator) Calculate(inputs OperatingInputs) (OperatingBreakdown, error) {
	if inputs.ProductionRate <= 0 && len(inputs.RawMaterials) > 0 {
		return OperatingBreakdown{}, fmt.Errorf("production rate must be positive when raw materials are supplied")
	}
	breakdown := OperatingBreakdown{
		Materials: make(map[string]MaterialCost),
		Utilities: make(map[string]UtilityCost),
		Labor:     make(map[string]LaborCost),
	}

	for _, material := range inputs.RawMaterials {
		annualConsumption := inputs.ProductionRate * material.ConsumptionRate
		cost := MaterialCost{
			ConsumptionRate:   material.ConsumptionRate,
			AnnualConsumption: annualConsumption,
			UnitPrice:         material.PriceUSDPerKg,
			AnnualCost:        annualConsumption * material.PriceUSDPerKg,
		}
		breakdown.Materials[material.Name] = cost
		breakdown.TotalMaterialCost += cost.AnnualCost
	}

	for _, utility := range inputs.Utilities {
		key := strings.ToLower(strings.TrimSpace(utility.Type))
		price, ok := c.utilityPrices[key]
		if !ok {
			continue
		}
		cost := UtilityCost{
			Consumption: utility.Consumption,
			UnitPrice:   price,
			AnnualCost:  utility.Consumption * price,
		}
		breakdown.Utilities[key] = cost
		breakdown.TotalUtilityCost += cost.AnnualCost
	}

	shifts := inputs.ShiftsPerDay
	if shifts <= 0 {
		shifts = 3
	}
	const hoursPerYear = 365 * 24
	for position, perShift := range inputs.LaborRequirements {
		key := strings.ToLower(strings.TrimSpace(position))
		rate, ok := c.laborRates[key]
		if !ok {
			continue
		}
		total := perShift * shifts
		annualHours := float64(total) * hoursPerYear
		cost := LaborCost{
			PeoplePerShift: perShift,
			TotalPeople:    total,
			HourlyRate:     rate,
			AnnualHours:    annualHours,
			AnnualCost:     annualHours * rate,
		}
		breakdown.Labor[key] = cost
		breakdown.TotalLaborCost += cost.AnnualCost
	}

	maintenanceFactor := inputs.MaintenanceFactor
	if maintenanceFactor <= 0 {
		maintenanceFactor = 0.04
	}
	breakdown.MaintenanceCost = inputs.FixedCapitalInvestment * maintenanceFactor

	direct := breakdown.TotalMaterialCost + breakdown.TotalUtilityCost +
		breakdown.TotalLaborCost + breakdown.MaintenanceCost

	overheadFactor := inputs.OverheadFactor
	if overheadFactor <= 0 {
		overheadFactor = 0.60
	}
	breakdown.Overhead = OverheadCosts{
		Administrative:      direct * 0.15,
		SalesMarketing:      direct * 0.10,
		ResearchDevelopment: direct * 0.05,
		GeneralOverhead:     direct * (overheadFactor - 0.30),
	}
	breakdown.Overhead.Total = breakdown.Overhead.Administrative +
		breakdown.Overhead.SalesMarketing +
		breakdown.Overhead.ResearchDevelopment +
		breakdown.Overhead.GeneralOverhead

	breakdown.TotalAnnualCost = direct + breakdown.Overhead.Total
	return breakdown, nil
}
