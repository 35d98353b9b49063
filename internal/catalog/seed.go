package catalog

import (
	"context"
	"fmt"
)

// Default reference data mirrors published price surveys and cost
// correlations; it is inserted only when the corresponding table is empty so
// operator edits survive restarts.

var defaultMaterials = []Material{
	{Name: "methanol", Category: "solvent", PriceUSDKg: 0.45, Unit: "kg", Volatility: "medium", Supplier: "global", Description: "Methanol 99.5%"},
	{Name: "ethanol", Category: "solvent", PriceUSDKg: 0.65, Unit: "kg", Volatility: "medium", Supplier: "global", Description: "Ethanol 99.5%"},
	{Name: "acetone", Category: "solvent", PriceUSDKg: 1.20, Unit: "kg", Volatility: "high", Supplier: "global", Description: "Acetone 99.5%"},
	{Name: "sodium_hydroxide", Category: "base", PriceUSDKg: 0.35, Unit: "kg", Volatility: "low", Supplier: "global", Description: "Caustic soda 50%"},
	{Name: "sulfuric_acid", Category: "acid", PriceUSDKg: 0.25, Unit: "kg", Volatility: "medium", Supplier: "regional", Description: "Sulfuric acid 98%"},
	{Name: "hydrochloric_acid", Category: "acid", PriceUSDKg: 0.30, Unit: "kg", Volatility: "medium", Supplier: "regional", Description: "HCl 37%"},
	{Name: "hydrogen", Category: "gas", PriceUSDKg: 3.50, Unit: "kg", Volatility: "high", Supplier: "regional", Description: "Hydrogen 99.9%"},
	{Name: "nitrogen", Category: "gas", PriceUSDKg: 0.05, Unit: "m3", Volatility: "low", Supplier: "regional", Description: "Nitrogen 99.9%"},
}

var defaultUtilityRegions = []string{"usa_gulf_coast", "usa_northeast", "europe_germany", "asia_singapore", "asia_china"}

var defaultUtilityCosts = map[string]struct {
	Unit  string
	Costs [5]float64
}{
	"electricity":   {Unit: "dollar_per_kWh", Costs: [5]float64{0.08, 0.12, 0.15, 0.10, 0.07}},
	"steam_lp":      {Unit: "dollar_per_ton", Costs: [5]float64{15.0, 18.0, 22.0, 16.0, 12.0}},
	"steam_mp":      {Unit: "dollar_per_ton", Costs: [5]float64{18.0, 22.0, 28.0, 20.0, 15.0}},
	"steam_hp":      {Unit: "dollar_per_ton", Costs: [5]float64{22.0, 28.0, 35.0, 25.0, 18.0}},
	"cooling_water": {Unit: "dollar_per_m3", Costs: [5]float64{0.05, 0.08, 0.12, 0.06, 0.04}},
	"process_water": {Unit: "dollar_per_m3", Costs: [5]float64{0.50, 0.80, 1.20, 0.60, 0.40}},
	"natural_gas":   {Unit: "dollar_per_MMBtu", Costs: [5]float64{8.0, 12.0, 15.0, 10.0, 6.0}},
}

var defaultEquipment = []Equipment{
	{Type: "reactor_cstr", BaseCost: 50000, BaseCapacity: 1000, CapacityUnit: "L", ScalingFactor: 0.65, MaterialCS: 1.0, MaterialSS: 2.5, MaterialHastelloy: 6.0, InstallationFactor: 3.5, Description: "Continuous stirred tank reactor"},
	{Type: "reactor_batch", BaseCost: 45000, BaseCapacity: 1000, CapacityUnit: "L", ScalingFactor: 0.70, MaterialCS: 1.0, MaterialSS: 2.5, MaterialHastelloy: 6.0, InstallationFactor: 3.5, Description: "Batch reactor with agitation"},
	{Type: "distillation_column", BaseCost: 80000, BaseCapacity: 100, CapacityUnit: "theoretical_plates", ScalingFactor: 0.70, MaterialCS: 1.0, MaterialSS: 2.2, MaterialHastelloy: 4.5, InstallationFactor: 4.0, Description: "Distillation column with trays"},
	{Type: "heat_exchanger_shell_tube", BaseCost: 15000, BaseCapacity: 50, CapacityUnit: "m2", ScalingFactor: 0.60, MaterialCS: 1.0, MaterialSS: 2.0, MaterialHastelloy: 3.5, InstallationFactor: 2.5, Description: "Shell and tube heat exchanger"},
	{Type: "pump_centrifugal", BaseCost: 3000, BaseCapacity: 100, CapacityUnit: "L_min", ScalingFactor: 0.35, MaterialCS: 1.0, MaterialSS: 1.8, MaterialHastelloy: 3.0, InstallationFactor: 2.0, Description: "Centrifugal pump"},
	{Type: "tank_storage", BaseCost: 10000, BaseCapacity: 1000, CapacityUnit: "L", ScalingFactor: 0.85, MaterialCS: 1.0, MaterialSS: 2.0, MaterialHastelloy: 4.0, InstallationFactor: 2.2, Description: "Storage tank"},
}

var defaultCEPCI = map[int]float64{
	2010: 550.8,
	2015: 556.8,
	2018: 603.1,
	2020: 596.2,
	2021: 708.0,
	2022: 816.0,
	2023: 832.0,
	2024: 850.0,
}

func (s *Store) seed(ctx context.Context) error {
	if err := s.seedMaterials(ctx); err != nil {
		return err
	}
	if err := s.seedUtilities(ctx); err != nil {
		return err
	}
	if err := s.seedEquipment(ctx); err != nil {
		return err
	}
	return s.seedCEPCI(ctx)
}

func (s *Store) seedMaterials(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM materials`); err != nil {
		return fmt.Errorf("count materials: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, m := range defaultMaterials {
		if _, err := s.db.NamedExecContext(ctx, `INSERT INTO materials
                        (name, category, price_usd_per_kg, unit, volatility, supplier_location, description)
                        VALUES (:name, :category, :price_usd_per_kg, :unit, :volatility, :supplier_location, :description)`, m); err != nil {
			return fmt.Errorf("seed material %s: %w", m.Name, err)
		}
	}
	return nil
}

func (s *Store) seedUtilities(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM utility_costs`); err != nil {
		return fmt.Errorf("count utility costs: %w", err)
	}
	if count > 0 {
		return nil
	}
	for utilityType, entry := range defaultUtilityCosts {
		for i, region := range defaultUtilityRegions {
			row := UtilityCost{Type: utilityType, Region: region, Cost: entry.Costs[i], Unit: entry.Unit}
			if _, err := s.db.NamedExecContext(ctx, `INSERT INTO utility_costs
                                (utility_type, region, cost, unit)
                                VALUES (:utility_type, :region, :cost, :unit)`, row); err != nil {
				return fmt.Errorf("seed utility %s/%s: %w", utilityType, region, err)
			}
		}
	}
	return nil
}

func (s *Store) seedEquipment(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM equipment`); err != nil {
		return fmt.Errorf("count equipment: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, e := range defaultEquipment {
		if _, err := s.db.NamedExecContext(ctx, `INSERT INTO equipment
                        (equipment_type, base_cost, base_capacity, base_capacity_unit, scaling_factor,
                         material_cs, material_ss, material_hastelloy, installation_factor, description)
                        VALUES (:equipment_type, :base_cost, :base_capacity, :base_capacity_unit, :scaling_factor,
                                :material_cs, :material_ss, :material_hastelloy, :installation_factor, :description)`, e); err != nil {
			return fmt.Errorf("seed equipment %s: %w", e.Type, err)
		}
	}
	return nil
}

func (s *Store) seedCEPCI(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM cepci`); err != nil {
		return fmt.Errorf("count cepci: %w", err)
	}
	if count > 0 {
		return nil
	}
	for year, index := range defaultCEPCI {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO cepci (year, index_value) VALUES (?, ?)`, year, index); err != nil {
			return fmt.Errorf("seed cepci %d: %w", year, err)
		}
	}
	return nil
}
