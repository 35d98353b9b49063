package market

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/chemeconai/chemecon/internal/catalog"
	"github.com/chemeconai/chemecon/internal/economics"
)

// Provider answers market data questions from the catalog: material prices
// with volatility bands, regional utility costs, price forecasts, and
// regional capital cost factors.
type Provider struct {
	store *catalog.Store
	rng   *rand.Rand
}

func NewProvider(store *catalog.Store) *Provider {
	return &Provider{
		store: store,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// WithRand replaces the forecast random source, used to make forecasts
// deterministic in tests.
func (p *Provider) WithRand(rng *rand.Rand) *Provider {
	p.rng = rng
	return p
}

// MaterialPrice is a catalog price augmented with a volatility-derived range.
type MaterialPrice struct {
	catalog.Material
	PriceRange  [2]float64 `json:"price_range"`
	LastUpdated time.Time  `json:"last_updated"`
}

// MaterialPrice returns the current price for a material with a price band
// reflecting its volatility class: low +/-5%, medium +/-15%, high +/-30%.
func (p *Provider) MaterialPrice(ctx context.Context, name string) (*MaterialPrice, error) {
	material, err := p.store.MaterialByName(ctx, name)
	if err != nil {
		return nil, err
	}
	low, high := volatilityBand(material.Volatility)
	return &MaterialPrice{
		Material:    *material,
		PriceRange:  [2]float64{material.PriceUSDKg * low, material.PriceUSDKg * high},
		LastUpdated: time.Now().UTC(),
	}, nil
}

// UtilityCost returns the regional price for a utility, falling back to the
// Gulf Coast baseline for unpriced regions.
func (p *Provider) UtilityCost(ctx context.Context, utilityType, region string) (*catalog.UtilityCost, error) {
	return p.store.UtilityCostFor(ctx, utilityType, region)
}

// Forecast projects a material price forward with a volatility-tiered annual
// drift.
type Forecast struct {
	MaterialName string    `json:"material_name"`
	BasePrice    float64   `json:"base_price"`
	Years        []int     `json:"forecast_years"`
	Prices       []float64 `json:"forecasted_prices"`
	Volatility   string    `json:"volatility"`
	Confidence   string    `json:"confidence"`
}

// PriceForecast projects the material price over the given horizon. Annual
// growth is drawn around 2%/3%/4% mean drift for low/medium/high volatility.
func (p *Provider) PriceForecast(ctx context.Context, name string, years int) (*Forecast, error) {
	if years <= 0 {
		years = 5
	}
	material, err := p.store.MaterialByName(ctx, name)
	if err != nil {
		return nil, err
	}
	mean, std, confidence := 0.03, 0.02, "medium"
	switch material.Volatility {
	case "low":
		mean, std, confidence = 0.02, 0.01, "high"
	case "high":
		mean, std, confidence = 0.04, 0.03, "low"
	}
	forecast := &Forecast{
		MaterialName: material.Name,
		BasePrice:    material.PriceUSDKg,
		Volatility:   material.Volatility,
		Confidence:   confidence,
	}
	price := material.PriceUSDKg
	for year := 1; year <= years; year++ {
		growth := mean + std*p.rng.NormFloat64()
		price *= 1 + growth
		forecast.Years = append(forecast.Years, year)
		forecast.Prices = append(forecast.Prices, price)
	}
	return forecast, nil
}

// RegionalFactors are capital cost multipliers relative to the US Gulf Coast.
func RegionalFactors() map[string]float64 {
	return map[string]float64{
		"usa_gulf_coast": 1.00,
		"usa_northeast":  1.25,
		"usa_west_coast": 1.30,
		"europe_germany": 1.40,
		"europe_uk":      1.45,
		"asia_singapore": 1.15,
		"asia_china":     0.75,
		"asia_india":     0.65,
		"middle_east":    0.80,
		"south_america":  0.70,
	}
}

// EscalatedCost is one year of a cost escalation schedule.
type EscalatedCost struct {
	Year   int     `json:"year"`
	Cost   float64 `json:"escalated_cost"`
	Factor float64 `json:"escalation_factor"`
}

// Escalation compounds a base cost forward at the given annual rate.
func Escalation(baseCost float64, years int, rate float64) ([]EscalatedCost, error) {
	if baseCost < 0 {
		return nil, fmt.Errorf("base cost cannot be negative")
	}
	if years <= 0 {
		return nil, fmt.Errorf("years must be positive")
	}
	if rate == 0 {
		rate = 0.03
	}
	schedule := make([]EscalatedCost, 0, years)
	for year := 1; year <= years; year++ {
		cost := economics.Escalate(baseCost, year, rate)
		schedule = append(schedule, EscalatedCost{Year: year, Cost: cost, Factor: cost / baseCost})
	}
	return schedule, nil
}

// CostSource adapts catalog equipment rows and CEPCI indices to the capital
// estimator.
type CostSource struct {
	store *catalog.Store
}

func NewCostSource(store *catalog.Store) *CostSource {
	return &CostSource{store: store}
}

func (c *CostSource) Equipment(ctx context.Context, equipmentType string) (economics.EquipmentSpec, error) {
	row, err := c.store.EquipmentByType(ctx, equipmentType)
	if err != nil {
		return economics.EquipmentSpec{}, err
	}
	return economics.EquipmentSpec{
		Type:          row.Type,
		BaseCost:      row.BaseCost,
		BaseCapacity:  row.BaseCapacity,
		CapacityUnit:  row.CapacityUnit,
		ScalingFactor: row.ScalingFactor,
		MaterialFactors: map[string]float64{
			"carbon_steel":    row.MaterialCS,
			"stainless_steel": row.MaterialSS,
			"hastelloy":       row.MaterialHastelloy,
		},
		InstallationFactor: row.InstallationFactor,
		Description:        row.Description,
	}, nil
}

func (c *CostSource) CEPCI(ctx context.Context, year int) (float64, error) {
	return c.store.CEPCIForYear(ctx, year)
}

func volatilityBand(volatility string) (low, high float64) {
	switch volatility {
	case "low":
		return 0.95, 1.05
	case "high":
		return 0.70, 1.30
	default:
		return 0.85, 1.15
	}
}
