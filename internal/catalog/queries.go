package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const defaultRegion = "usa_gulf_coast"

// ListMaterials returns all materials, optionally filtered by category.
func (s *Store) ListMaterials(ctx context.Context, category string) ([]Material, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	materials := []Material{}
	if strings.TrimSpace(category) == "" {
		if err := s.db.SelectContext(ctx, &materials, `SELECT * FROM materials ORDER BY name`); err != nil {
			return nil, fmt.Errorf("select materials: %w", err)
		}
		return materials, nil
	}
	if err := s.db.SelectContext(ctx, &materials, `SELECT * FROM materials WHERE category = ? ORDER BY name`, strings.ToLower(category)); err != nil {
		return nil, fmt.Errorf("select materials: %w", err)
	}
	return materials, nil
}

// MaterialByName retrieves a single material, case-insensitively.
func (s *Store) MaterialByName(ctx context.Context, name string) (*Material, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("material name required")
	}
	var material Material
	if err := s.db.GetContext(ctx, &material, `SELECT * FROM materials WHERE name = ?`, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select material: %w", err)
	}
	return &material, nil
}

// ListUtilityCosts returns all utility cost rows for a region; an empty region
// returns every row.
func (s *Store) ListUtilityCosts(ctx context.Context, region string) ([]UtilityCost, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	costs := []UtilityCost{}
	if strings.TrimSpace(region) == "" {
		if err := s.db.SelectContext(ctx, &costs, `SELECT * FROM utility_costs ORDER BY utility_type, region`); err != nil {
			return nil, fmt.Errorf("select utility costs: %w", err)
		}
		return costs, nil
	}
	if err := s.db.SelectContext(ctx, &costs, `SELECT * FROM utility_costs WHERE region = ? ORDER BY utility_type`, normalizeRegion(region)); err != nil {
		return nil, fmt.Errorf("select utility costs: %w", err)
	}
	return costs, nil
}

// UtilityCostFor returns a utility price for the region, falling back to the
// US Gulf Coast baseline when the region is not priced.
func (s *Store) UtilityCostFor(ctx context.Context, utilityType, region string) (*UtilityCost, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	utilityType = strings.ToLower(strings.TrimSpace(utilityType))
	if utilityType == "" {
		return nil, fmt.Errorf("utility type required")
	}
	var cost UtilityCost
	err := s.db.GetContext(ctx, &cost, `SELECT * FROM utility_costs WHERE utility_type = ? AND region = ?`, utilityType, normalizeRegion(region))
	if errors.Is(err, sql.ErrNoRows) {
		err = s.db.GetContext(ctx, &cost, `SELECT * FROM utility_costs WHERE utility_type = ? AND region = ?`, utilityType, defaultRegion)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select utility cost: %w", err)
	}
	return &cost, nil
}

// ListEquipment returns every equipment correlation.
func (s *Store) ListEquipment(ctx context.Context) ([]Equipment, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	equipment := []Equipment{}
	if err := s.db.SelectContext(ctx, &equipment, `SELECT * FROM equipment ORDER BY equipment_type`); err != nil {
		return nil, fmt.Errorf("select equipment: %w", err)
	}
	return equipment, nil
}

// EquipmentByType retrieves a single equipment correlation.
func (s *Store) EquipmentByType(ctx context.Context, equipmentType string) (*Equipment, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	equipmentType = strings.ToLower(strings.TrimSpace(equipmentType))
	if equipmentType == "" {
		return nil, fmt.Errorf("equipment type required")
	}
	var equipment Equipment
	if err := s.db.GetContext(ctx, &equipment, `SELECT * FROM equipment WHERE equipment_type = ?`, equipmentType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select equipment: %w", err)
	}
	return &equipment, nil
}

// CEPCIForYear returns the plant cost index for a year. Years beyond the
// table clamp to the latest known index.
func (s *Store) CEPCIForYear(ctx context.Context, year int) (float64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("catalog store not initialised")
	}
	var index float64
	err := s.db.GetContext(ctx, &index, `SELECT index_value FROM cepci WHERE year = ?`, year)
	if errors.Is(err, sql.ErrNoRows) {
		err = s.db.GetContext(ctx, &index, `SELECT index_value FROM cepci ORDER BY year DESC LIMIT 1`)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("select cepci: %w", err)
	}
	return index, nil
}

// UpdateCEPCI inserts or replaces the index value for a year.
func (s *Store) UpdateCEPCI(ctx context.Context, year int, index float64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("catalog store not initialised")
	}
	if year <= 0 || index <= 0 {
		return fmt.Errorf("year and index must be positive")
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO cepci (year, index_value) VALUES (?, ?)
                ON CONFLICT(year) DO UPDATE SET index_value = excluded.index_value`, year, index); err != nil {
		return fmt.Errorf("update cepci: %w", err)
	}
	return nil
}

// SaveProject inserts or updates a project record.
func (s *Store) SaveProject(ctx context.Context, project Project) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("catalog store not initialised")
	}
	if strings.TrimSpace(project.ID) == "" {
		return fmt.Errorf("project id required")
	}
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now
	if _, err := s.db.NamedExecContext(ctx, `INSERT INTO projects
                (id, name, definition, results, status, created_at, updated_at)
                VALUES (:id, :name, :definition, :results, :status, :created_at, :updated_at)
                ON CONFLICT(id) DO UPDATE SET
                        name = excluded.name,
                        definition = excluded.definition,
                        results = excluded.results,
                        status = excluded.status,
                        updated_at = excluded.updated_at`, project); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// ProjectByID retrieves a project.
func (s *Store) ProjectByID(ctx context.Context, id string) (*Project, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	var project Project
	if err := s.db.GetContext(ctx, &project, `SELECT * FROM projects WHERE id = ?`, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select project: %w", err)
	}
	return &project, nil
}

// ListProjects returns all projects ordered by most recent update.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	projects := []Project{}
	if err := s.db.SelectContext(ctx, &projects, `SELECT * FROM projects ORDER BY updated_at DESC`); err != nil {
		return nil, fmt.Errorf("select projects: %w", err)
	}
	return projects, nil
}

// SaveReport persists a rendered report.
func (s *Store) SaveReport(ctx context.Context, report Report) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("catalog store not initialised")
	}
	if strings.TrimSpace(report.ID) == "" {
		return fmt.Errorf("report id required")
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	if report.Format == "" {
		report.Format = "markdown"
	}
	if _, err := s.db.NamedExecContext(ctx, `INSERT INTO reports
                (id, project_id, title, author, format, content, created_at)
                VALUES (:id, :project_id, :title, :author, :format, :content, :created_at)`, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// ReportByID retrieves a report.
func (s *Store) ReportByID(ctx context.Context, id string) (*Report, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	var report Report
	if err := s.db.GetContext(ctx, &report, `SELECT * FROM reports WHERE id = ?`, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select report: %w", err)
	}
	return &report, nil
}

// ReportsForProject lists reports for a project, newest first.
func (s *Store) ReportsForProject(ctx context.Context, projectID string) ([]Report, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	reports := []Report{}
	if err := s.db.SelectContext(ctx, &reports, `SELECT * FROM reports WHERE project_id = ? ORDER BY created_at DESC`, strings.TrimSpace(projectID)); err != nil {
		return nil, fmt.Errorf("select reports: %w", err)
	}
	return reports, nil
}

func normalizeRegion(region string) string {
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		return defaultRegion
	}
	region = strings.ReplaceAll(region, " ", "_")
	return strings.ReplaceAll(region, "-", "_")
}
