// Package project stores process definitions and runs the full economic
// analysis pipeline over them.
package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chemeconai/chemecon/internal/catalog"
	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/economics"
	"github.com/chemeconai/chemecon/internal/market"
)

// Product is a saleable output with its price and the fraction of the
// production rate it accounts for.
type Product struct {
	Name          string  `json:"name"`
	PriceUSDPerKg float64 `json:"price_usd_per_kg"`
	YieldFraction float64 `json:"yield_fraction,omitempty"`
}

// Assumptions are the economic parameters of a project.
type Assumptions struct {
	ProjectLifetime int     `json:"project_lifetime"`
	DiscountRate    float64 `json:"discount_rate"`
	TaxRate         float64 `json:"tax_rate"`
	SalvageValue    float64 `json:"salvage_value,omitempty"`
	CostYear        int     `json:"cost_year,omitempty"`
	PlantType       string  `json:"plant_type,omitempty"`
}

// Definition is the stored description of a process project.
type Definition struct {
	Name           string                    `json:"name"`
	ProcessType    string                    `json:"process_type"`
	Location       string                    `json:"location,omitempty"`
	ProductionRate float64                   `json:"production_rate"`
	OperatingHours int                       `json:"operating_hours"`
	ShiftsPerDay   int                       `json:"shifts_per_day,omitempty"`
	RawMaterials   []economics.RawMaterial   `json:"raw_materials"`
	Products       []Product                 `json:"products"`
	Utilities      []economics.UtilityDemand `json:"utilities,omitempty"`
	Labor          map[string]int            `json:"labor,omitempty"`
	Equipment      []economics.EquipmentItem `json:"equipment"`
	Assumptions    Assumptions               `json:"assumptions"`
}

var validProcessTypes = map[string]bool{
	"continuous": true,
	"batch":      true,
	"semi-batch": true,
}

// Validate rejects definitions the analysis pipeline cannot price.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("project name required")
	}
	processType := strings.ToLower(strings.TrimSpace(d.ProcessType))
	if !validProcessTypes[processType] {
		return fmt.Errorf("unknown process type %q (want continuous, batch, or semi-batch)", d.ProcessType)
	}
	if d.ProductionRate <= 0 {
		return errors.New("production rate must be positive")
	}
	if d.OperatingHours <= 0 || d.OperatingHours > 8760 {
		return errors.New("operating hours must be between 1 and 8760")
	}
	if len(d.Products) == 0 {
		return errors.New("at least one product required")
	}
	for _, product := range d.Products {
		if product.PriceUSDPerKg < 0 {
			return fmt.Errorf("product %q: price cannot be negative", product.Name)
		}
	}
	for _, material := range d.RawMaterials {
		if material.PriceUSDPerKg < 0 || material.ConsumptionRate < 0 {
			return fmt.Errorf("raw material %q: price and consumption must be non-negative", material.Name)
		}
	}
	if len(d.Equipment) == 0 {
		return errors.New("equipment list required")
	}
	a := d.Assumptions
	if a.ProjectLifetime <= 0 || a.ProjectLifetime > 50 {
		return errors.New("project lifetime must be between 1 and 50 years")
	}
	if a.DiscountRate < 0 || a.DiscountRate > 0.5 {
		return errors.New("discount rate must be between 0 and 0.5")
	}
	if a.TaxRate < 0 || a.TaxRate > 1 {
		return errors.New("tax rate must be between 0 and 1")
	}
	return nil
}

// AnnualRevenue prices the production rate against each product's yield
// share. A product without an explicit yield takes an equal share.
func (d Definition) AnnualRevenue() float64 {
	if len(d.Products) == 0 {
		return 0
	}
	defaultShare := 1.0 / float64(len(d.Products))
	var revenue float64
	for _, product := range d.Products {
		share := product.YieldFraction
		if share <= 0 {
			share = defaultShare
		}
		revenue += d.ProductionRate * 1000 * share * product.PriceUSDPerKg
	}
	return revenue
}

// Result is the cached outcome of an analysis run.
type Result struct {
	Capital       economics.CapitalBreakdown    `json:"capital"`
	Operating     economics.OperatingBreakdown  `json:"operating"`
	AnnualRevenue float64                       `json:"annual_revenue"`
	Profitability economics.ProfitabilityResult `json:"profitability"`
	AnalyzedAt    time.Time                     `json:"analyzed_at"`
}

// Runner persists projects and drives the analysis pipeline against the
// catalog's cost data.
type Runner struct {
	store *catalog.Store
}

func NewRunner(store *catalog.Store) *Runner {
	return &Runner{store: store}
}

// Create validates and stores a new project definition.
func (r *Runner) Create(ctx context.Context, def Definition) (*catalog.Project, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("encode definition: %w", err)
	}
	record := catalog.Project{
		ID:         uuid.NewString(),
		Name:       def.Name,
		Definition: string(encoded),
		Status:     "defined",
	}
	if err := r.store.SaveProject(ctx, record); err != nil {
		return nil, err
	}
	common.Logger().Info("project: created", "project_id", record.ID, "name", record.Name)
	return &record, nil
}

// Get returns a stored project.
func (r *Runner) Get(ctx context.Context, id string) (*catalog.Project, error) {
	return r.store.ProjectByID(ctx, id)
}

// List returns all stored projects.
func (r *Runner) List(ctx context.Context) ([]catalog.Project, error) {
	return r.store.ListProjects(ctx)
}

// Analyze runs the full pipeline for a stored project and caches the result
// on the record: capital estimate, operating costs with regional utility
// prices, revenue, then profitability.
func (r *Runner) Analyze(ctx context.Context, id string) (*Result, error) {
	record, err := r.store.ProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var def Definition
	if err := json.Unmarshal([]byte(record.Definition), &def); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	result, err := r.Run(ctx, def)
	if err != nil {
		record.Status = "failed"
		if saveErr := r.store.SaveProject(ctx, *record); saveErr != nil {
			common.Logger().Error("project: failed to record analysis failure", "project_id", id, "error", saveErr)
		}
		return nil, err
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	record.Results = string(encoded)
	record.Status = "analyzed"
	if err := r.store.SaveProject(ctx, *record); err != nil {
		return nil, err
	}
	common.Logger().Info("project: analyzed", "project_id", id,
		"npv", result.Profitability.NPV, "irr_pct", result.Profitability.IRRPct)
	return result, nil
}

// Run executes the pipeline for a definition without touching stored state.
func (r *Runner) Run(ctx context.Context, def Definition) (*Result, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	costYear := def.Assumptions.CostYear
	if costYear <= 0 {
		costYear = time.Now().Year()
	}
	estimator := economics.NewCapitalEstimator(market.NewCostSource(r.store), costYear)
	capital, err := estimator.Estimate(ctx, def.Equipment, def.Assumptions.PlantType)
	if err != nil {
		return nil, fmt.Errorf("capital estimate: %w", err)
	}

	calculator := economics.NewOperatingCalculator()
	r.applyRegionalUtilityPrices(ctx, calculator, def)
	operating, err := calculator.Calculate(economics.OperatingInputs{
		RawMaterials:           def.RawMaterials,
		Utilities:              def.Utilities,
		LaborRequirements:      def.Labor,
		ShiftsPerDay:           def.ShiftsPerDay,
		ProductionRate:         def.ProductionRate,
		OperatingHours:         def.OperatingHours,
		FixedCapitalInvestment: capital.FixedCapitalInvestment,
	})
	if err != nil {
		return nil, fmt.Errorf("operating estimate: %w", err)
	}

	revenue := def.AnnualRevenue()
	profitability, err := economics.AnalyzeProfitability(economics.ProfitabilityInputs{
		CapitalInvestment:    capital.TotalCapitalInvestment,
		AnnualRevenue:        revenue,
		AnnualOperatingCosts: operating.TotalAnnualCost,
		ProjectLifetime:      def.Assumptions.ProjectLifetime,
		DiscountRate:         def.Assumptions.DiscountRate,
		TaxRate:              def.Assumptions.TaxRate,
		SalvageValue:         def.Assumptions.SalvageValue,
	})
	if err != nil {
		return nil, fmt.Errorf("profitability: %w", err)
	}

	return &Result{
		Capital:       capital,
		Operating:     operating,
		AnnualRevenue: revenue,
		Profitability: profitability,
		AnalyzedAt:    time.Now().UTC(),
	}, nil
}

// applyRegionalUtilityPrices overrides the calculator's Gulf Coast defaults
// with catalog prices for the project's location when available.
func (r *Runner) applyRegionalUtilityPrices(ctx context.Context, calc *economics.OperatingCalculator, def Definition) {
	if r.store == nil || len(def.Utilities) == 0 {
		return
	}
	for _, demand := range def.Utilities {
		cost, err := r.store.UtilityCostFor(ctx, demand.Type, def.Location)
		if err != nil {
			if !errors.Is(err, catalog.ErrNotFound) {
				common.Logger().Warn("project: utility price lookup failed", "utility", demand.Type, "error", err)
			}
			continue
		}
		calc.WithUtilityPrice(cost.Type, cost.Cost)
	}
}
