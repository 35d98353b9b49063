package economics

import (
	"context"
	"fmt"
	"strings"

	"github.com/chemeconai/chemecon/internal/common"
)

const (
	cepciBaseYear = 2020
	cepciBase     = 596.2
)

// EquipmentSpec describes a cost correlation for one equipment type.
type EquipmentSpec struct {
	Type               string             `json:"equipment_type"`
	BaseCost           float64            `json:"base_cost"`
	BaseCapacity       float64            `json:"base_capacity"`
	CapacityUnit       string             `json:"base_capacity_unit"`
	ScalingFactor      float64            `json:"scaling_factor"`
	MaterialFactors    map[string]float64 `json:"material_factors"`
	InstallationFactor float64            `json:"installation_factor"`
	Description        string             `json:"description"`
}

// EquipmentSource supplies cost correlations and CEPCI indices, typically
// backed by the catalog database.
type EquipmentSource interface {
	Equipment(ctx context.Context, equipmentType string) (EquipmentSpec, error)
	CEPCI(ctx context.Context, year int) (float64, error)
}

// EquipmentItem is a piece of equipment to cost as part of a flowsheet.
type EquipmentItem struct {
	ID       string  `json:"id,omitempty"`
	Type     string  `json:"type"`
	Capacity float64 `json:"capacity"`
	Material string  `json:"material,omitempty"`
	Quantity int     `json:"quantity,omitempty"`
}

// EquipmentCost is the detailed breakdown for one costed item.
type EquipmentCost struct {
	Type           string  `json:"equipment_type"`
	ID             string  `json:"id,omitempty"`
	UnitCost       float64 `json:"unit_cost"`
	Quantity       int     `json:"quantity"`
	TotalCost      float64 `json:"total_cost"`
	CapacityFactor float64 `json:"capacity_factor"`
	MaterialFactor float64 `json:"material_factor"`
	CEPCIFactor    float64 `json:"cepci_factor"`
	Unit           string  `json:"unit"`
	Description    string  `json:"description,omitempty"`
}

// CapitalBreakdown rolls purchased equipment costs up to total capital
// investment.
type CapitalBreakdown struct {
	Equipment              []EquipmentCost `json:"equipment"`
	TotalEquipmentCost     float64         `json:"total_equipment_cost"`
	TotalInstalledCost     float64         `json:"installed_equipment_cost"`
	EngineeringCost        float64         `json:"engineering_cost"`
	ConstructionCost       float64         `json:"construction_cost"`
	Contingency            float64         `json:"contingency"`
	FixedCapitalInvestment float64         `json:"fixed_capital_investment"`
	WorkingCapital         float64         `json:"working_capital"`
	TotalCapitalInvestment float64         `json:"total_capital_investment"`
	PlantType              string          `json:"plant_type"`
}

type plantFactors struct {
	engineering    float64
	construction   float64
	contingency    float64
	workingCapital float64
}

var plantTypeFactors = map[string]plantFactors{
	"chemical":       {engineering: 0.15, construction: 0.20, contingency: 0.15, workingCapital: 0.10},
	"pharmaceutical": {engineering: 0.20, construction: 0.25, contingency: 0.20, workingCapital: 0.15},
}

// CapitalEstimator estimates installed and total capital costs from the
// equipment cost correlations in its source.
type CapitalEstimator struct {
	source EquipmentSource
	year   int
}

func NewCapitalEstimator(source EquipmentSource, year int) *CapitalEstimator {
	return &CapitalEstimator{source: source, year: year}
}

// EstimateEquipment costs a single item: power-law capacity scaling, material
// factor, then CEPCI escalation from the 2020 base year.
func (e *CapitalEstimator) EstimateEquipment(ctx context.Context, item EquipmentItem) (EquipmentCost, error) {
	if e.source == nil {
		return EquipmentCost{}, fmt.Errorf("equipment source not configured")
	}
	spec, err := e.source.Equipment(ctx, item.Type)
	if err != nil {
		return EquipmentCost{}, err
	}
	if item.Capacity <= 0 {
		return EquipmentCost{}, fmt.Errorf("equipment %q: capacity must be positive", item.Type)
	}
	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	material := strings.ToLower(strings.TrimSpace(item.Material))
	if material == "" {
		material = "carbon_steel"
	}

	scaled, err := ScaleCost(spec.BaseCost, spec.BaseCapacity, item.Capacity, spec.ScalingFactor)
	if err != nil {
		return EquipmentCost{}, fmt.Errorf("equipment %q: %w", item.Type, err)
	}
	materialFactor, ok := spec.MaterialFactors[material]
	if !ok {
		common.Logger().Warn("economics: unknown material, using carbon steel factor", "equipment", item.Type, "material", material)
		materialFactor = 1.0
	}

	currentIndex, err := e.source.CEPCI(ctx, e.year)
	if err != nil {
		return EquipmentCost{}, err
	}
	unitCost, err := UpdateCostCEPCI(scaled*materialFactor, cepciBase, currentIndex)
	if err != nil {
		return EquipmentCost{}, err
	}

	return EquipmentCost{
		Type:           spec.Type,
		ID:             item.ID,
		UnitCost:       unitCost,
		Quantity:       quantity,
		TotalCost:      unitCost * float64(quantity),
		CapacityFactor: scaled / spec.BaseCost,
		MaterialFactor: materialFactor,
		CEPCIFactor:    currentIndex / cepciBase,
		Unit:           spec.CapacityUnit,
		Description:    spec.Description,
	}, nil
}

// Estimate costs the full equipment list and builds the capital investment
// breakdown for the given plant type. Unknown plant types fall back to the
// chemical factors.
func (e *CapitalEstimator) Estimate(ctx context.Context, items []EquipmentItem, plantType string) (CapitalBreakdown, error) {
	if len(items) == 0 {
		return CapitalBreakdown{}, fmt.Errorf("equipment list required")
	}
	plantType = strings.ToLower(strings.TrimSpace(plantType))
	factors, ok := plantTypeFactors[plantType]
	if !ok {
		plantType = "chemical"
		factors = plantTypeFactors[plantType]
	}

	breakdown := CapitalBreakdown{PlantType: plantType}
	for _, item := range items {
		cost, err := e.EstimateEquipment(ctx, item)
		if err != nil {
			return CapitalBreakdown{}, err
		}
		breakdown.Equipment = append(breakdown.Equipment, cost)
		breakdown.TotalEquipmentCost += cost.TotalCost

		spec, err := e.source.Equipment(ctx, item.Type)
		if err != nil {
			return CapitalBreakdown{}, err
		}
		installation := spec.InstallationFactor
		if installation <= 0 {
			installation = 3.0
		}
		breakdown.TotalInstalledCost += cost.TotalCost * installation
	}

	breakdown.EngineeringCost = breakdown.TotalInstalledCost * factors.engineering
	breakdown.ConstructionCost = breakdown.TotalInstalledCost * factors.construction
	fixed := breakdown.TotalInstalledCost + breakdown.EngineeringCost + breakdown.ConstructionCost
	breakdown.Contingency = fixed * factors.contingency
	breakdown.FixedCapitalInvestment = fixed + breakdown.Contingency
	breakdown.WorkingCapital = breakdown.FixedCapitalInvestment * factors.workingCapital
	breakdown.TotalCapitalInvestment = breakdown.FixedCapitalInvestment + breakdown.WorkingCapital
	return breakdown, nil
}
