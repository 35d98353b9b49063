package catalog

import "time"

// Material is a priced raw material or product chemical.
type Material struct {
	ID          int64   `db:"id" json:"-"`
	Name        string  `db:"name" json:"material_name"`
	Category    string  `db:"category" json:"category"`
	PriceUSDKg  float64 `db:"price_usd_per_kg" json:"price_usd_per_kg"`
	Unit        string  `db:"unit" json:"unit"`
	Volatility  string  `db:"volatility" json:"volatility"`
	Supplier    string  `db:"supplier_location" json:"supplier_location"`
	Description string  `db:"description" json:"description"`
}

// UtilityCost is the price of one utility in one region.
type UtilityCost struct {
	ID     int64   `db:"id" json:"-"`
	Type   string  `db:"utility_type" json:"utility_type"`
	Region string  `db:"region" json:"region"`
	Cost   float64 `db:"cost" json:"cost"`
	Unit   string  `db:"unit" json:"unit"`
}

// Equipment is a cost correlation row for an equipment type.
type Equipment struct {
	ID                 int64   `db:"id" json:"-"`
	Type               string  `db:"equipment_type" json:"equipment_type"`
	BaseCost           float64 `db:"base_cost" json:"base_cost"`
	BaseCapacity       float64 `db:"base_capacity" json:"base_capacity"`
	CapacityUnit       string  `db:"base_capacity_unit" json:"base_capacity_unit"`
	ScalingFactor      float64 `db:"scaling_factor" json:"scaling_factor"`
	MaterialCS         float64 `db:"material_cs" json:"material_cs"`
	MaterialSS         float64 `db:"material_ss" json:"material_ss"`
	MaterialHastelloy  float64 `db:"material_hastelloy" json:"material_hastelloy"`
	InstallationFactor float64 `db:"installation_factor" json:"installation_factor"`
	Description        string  `db:"description" json:"description"`
}

// Project is a stored process definition together with its latest analysis.
type Project struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Definition string    `db:"definition" json:"definition"`
	Results    string    `db:"results" json:"results,omitempty"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Report is a rendered analysis report for a project.
type Report struct {
	ID        string    `db:"id" json:"id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	Title     string    `db:"title" json:"title"`
	Author    string    `db:"author" json:"author"`
	Format    string    `db:"format" json:"format"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
