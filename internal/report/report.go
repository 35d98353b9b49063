// Package report renders process economics analyses as markdown documents
// and persists them through the catalog store.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chemeconai/chemecon/internal/catalog"
	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/economics"
	"github.com/chemeconai/chemecon/internal/format"
)

// Input collects everything a report can draw on. Nil analysis sections are
// simply omitted from the rendered document.
type Input struct {
	ProjectID      string                         `json:"project_id,omitempty"`
	ProjectName    string                         `json:"project_name"`
	Author         string                         `json:"author,omitempty"`
	ProcessType    string                         `json:"process_type,omitempty"`
	Location       string                         `json:"location,omitempty"`
	ProductionRate float64                        `json:"production_rate,omitempty"`
	OperatingHours int                            `json:"operating_hours,omitempty"`
	RawMaterials   []string                       `json:"raw_materials,omitempty"`
	Products       []string                       `json:"products,omitempty"`
	Capital        *economics.CapitalBreakdown    `json:"capital,omitempty"`
	Operating      *economics.OperatingBreakdown  `json:"operating,omitempty"`
	Profitability  *economics.ProfitabilityResult `json:"profitability,omitempty"`
	Sensitivity    []economics.SensitivityPoint   `json:"sensitivity,omitempty"`
	AIInsights     string                         `json:"ai_insights,omitempty"`
}

// Section names accepted by Generate.
const (
	SectionExecutiveSummary = "executive_summary"
	SectionProcessOverview  = "process_overview"
	SectionCapital          = "capital_investment"
	SectionOperating        = "operating_costs"
	SectionProfitability    = "profitability"
	SectionSensitivity      = "sensitivity"
	SectionAIInsights       = "ai_insights"
	SectionRecommendations  = "recommendations"
)

var defaultSections = []string{
	SectionExecutiveSummary,
	SectionProcessOverview,
	SectionCapital,
	SectionOperating,
	SectionProfitability,
	SectionSensitivity,
	SectionAIInsights,
	SectionRecommendations,
}

// Builder renders reports and writes them to the catalog.
type Builder struct {
	store *catalog.Store
}

func NewBuilder(store *catalog.Store) *Builder {
	return &Builder{store: store}
}

// Generate renders the requested sections in their canonical order and
// returns the unsaved report record. An empty section list means all
// sections.
func (b *Builder) Generate(in Input, sections []string) (catalog.Report, error) {
	selected, err := resolveSections(sections)
	if err != nil {
		return catalog.Report{}, err
	}

	title := strings.TrimSpace(in.ProjectName)
	if title == "" {
		title = "Process Economics Analysis"
	}

	var doc strings.Builder
	fmt.Fprintf(&doc, "# %s\n\n", title)
	fmt.Fprintf(&doc, "*Generated %s*\n\n", time.Now().UTC().Format("2006-01-02 15:04 UTC"))
	if author := strings.TrimSpace(in.Author); author != "" {
		fmt.Fprintf(&doc, "*Prepared by %s*\n\n", author)
	}

	for _, section := range selected {
		switch section {
		case SectionExecutiveSummary:
			writeExecutiveSummary(&doc, in)
		case SectionProcessOverview:
			writeProcessOverview(&doc, in)
		case SectionCapital:
			writeCapital(&doc, in)
		case SectionOperating:
			writeOperating(&doc, in)
		case SectionProfitability:
			writeProfitability(&doc, in)
		case SectionSensitivity:
			writeSensitivity(&doc, in)
		case SectionAIInsights:
			writeAIInsights(&doc, in)
		case SectionRecommendations:
			writeRecommendations(&doc, in)
		}
	}

	report := catalog.Report{
		ID:        uuid.NewString(),
		ProjectID: strings.TrimSpace(in.ProjectID),
		Title:     title,
		Author:    strings.TrimSpace(in.Author),
		Format:    "markdown",
		Content:   doc.String(),
		CreatedAt: time.Now().UTC(),
	}
	common.Logger().Info("report: generated", "report_id", report.ID, "sections", len(selected), "bytes", len(report.Content))
	return report, nil
}

// Save persists a generated report.
func (b *Builder) Save(ctx context.Context, report catalog.Report) error {
	if b.store == nil {
		return fmt.Errorf("report store not configured")
	}
	return b.store.SaveReport(ctx, report)
}

func resolveSections(sections []string) ([]string, error) {
	if len(sections) == 0 {
		return defaultSections, nil
	}
	requested := make(map[string]bool, len(sections))
	for _, section := range sections {
		key := strings.ToLower(strings.TrimSpace(section))
		valid := false
		for _, known := range defaultSections {
			if key == known {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("unknown report section %q", section)
		}
		requested[key] = true
	}
	ordered := make([]string, 0, len(requested))
	for _, section := range defaultSections {
		if requested[section] {
			ordered = append(ordered, section)
		}
	}
	return ordered, nil
}

// Verdict maps the headline metrics to an investment recommendation.
func Verdict(p *economics.ProfitabilityResult) string {
	switch {
	case p == nil:
		return "INSUFFICIENT DATA"
	case p.NPV > 0 && p.IRRPct > 12:
		return "APPROVED - Strong financial returns"
	case p.NPV > 0:
		return "CONDITIONAL - Positive NPV but modest returns"
	default:
		return "NOT RECOMMENDED - Negative NPV"
	}
}

func writeExecutiveSummary(doc *strings.Builder, in Input) {
	doc.WriteString("## Executive Summary\n\n")
	if in.Profitability == nil {
		doc.WriteString("Profitability analysis not yet available for this project.\n\n")
		return
	}
	p := in.Profitability
	fmt.Fprintf(doc, "**Recommendation: %s**\n\n", Verdict(p))
	doc.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(doc, "| Net Present Value | %s |\n", format.Currency(p.NPV))
	fmt.Fprintf(doc, "| Internal Rate of Return | %s |\n", format.Percent(p.IRRPct, 1))
	fmt.Fprintf(doc, "| Payback Period | %.1f years |\n", p.PaybackPeriod)
	fmt.Fprintf(doc, "| Return on Investment | %s |\n", format.Percent(p.ROIPct, 1))
	fmt.Fprintf(doc, "| Profitability Index | %.2f |\n", p.ProfitabilityIndex)
	if in.Capital != nil {
		fmt.Fprintf(doc, "| Total Capital Investment | %s |\n", format.Currency(in.Capital.TotalCapitalInvestment))
	}
	doc.WriteString("\n")
}

func writeProcessOverview(doc *strings.Builder, in Input) {
	doc.WriteString("## Process Overview\n\n")
	if in.ProcessType != "" {
		fmt.Fprintf(doc, "- **Process type:** %s\n", in.ProcessType)
	}
	if in.ProductionRate > 0 {
		fmt.Fprintf(doc, "- **Production rate:** %s\n", format.Unit(in.ProductionRate, "tons/year"))
	}
	if in.OperatingHours > 0 {
		fmt.Fprintf(doc, "- **Operating hours:** %s h/year\n", format.Comma(float64(in.OperatingHours), 0))
	}
	if in.Location != "" {
		fmt.Fprintf(doc, "- **Location:** %s\n", in.Location)
	}
	if len(in.RawMaterials) > 0 {
		fmt.Fprintf(doc, "- **Raw materials:** %s\n", strings.Join(in.RawMaterials, ", "))
	}
	if len(in.Products) > 0 {
		fmt.Fprintf(doc, "- **Products:** %s\n", strings.Join(in.Products, ", "))
	}
	doc.WriteString("\n")
}

func writeCapital(doc *strings.Builder, in Input) {
	if in.Capital == nil {
		return
	}
	c := in.Capital
	doc.WriteString("## Capital Investment\n\n")
	if len(c.Equipment) > 0 {
		doc.WriteString("| Equipment | Qty | Unit Cost | Total |\n|---|---|---|---|\n")
		for _, item := range c.Equipment {
			label := item.Type
			if item.ID != "" {
				label = fmt.Sprintf("%s (%s)", item.Type, item.ID)
			}
			fmt.Fprintf(doc, "| %s | %d | %s | %s |\n",
				label, item.Quantity, format.Currency(item.UnitCost), format.Currency(item.TotalCost))
		}
		doc.WriteString("\n")
	}
	doc.WriteString("| Component | Cost |\n|---|---|\n")
	fmt.Fprintf(doc, "| Purchased equipment | %s |\n", format.Currency(c.TotalEquipmentCost))
	fmt.Fprintf(doc, "| Installed equipment | %s |\n", format.Currency(c.TotalInstalledCost))
	fmt.Fprintf(doc, "| Engineering | %s |\n", format.Currency(c.EngineeringCost))
	fmt.Fprintf(doc, "| Construction | %s |\n", format.Currency(c.ConstructionCost))
	fmt.Fprintf(doc, "| Contingency | %s |\n", format.Currency(c.Contingency))
	fmt.Fprintf(doc, "| Fixed capital investment | %s |\n", format.Currency(c.FixedCapitalInvestment))
	fmt.Fprintf(doc, "| Working capital | %s |\n", format.Currency(c.WorkingCapital))
	fmt.Fprintf(doc, "| **Total capital investment** | **%s** |\n", format.Currency(c.TotalCapitalInvestment))
	if in.ProductionRate > 0 {
		fmt.Fprintf(doc, "\nCapital intensity: %s per annual tonne.\n", format.Currency(c.TotalCapitalInvestment/in.ProductionRate))
	}
	doc.WriteString("\n")
}

func writeOperating(doc *strings.Builder, in Input) {
	if in.Operating == nil {
		return
	}
	o := in.Operating
	doc.WriteString("## Operating Costs\n\n")
	doc.WriteString("| Category | Annual Cost | Share |\n|---|---|---|\n")
	writeCostRow(doc, "Raw materials", o.TotalMaterialCost, o.TotalAnnualCost)
	writeCostRow(doc, "Utilities", o.TotalUtilityCost, o.TotalAnnualCost)
	writeCostRow(doc, "Labor", o.TotalLaborCost, o.TotalAnnualCost)
	writeCostRow(doc, "Maintenance", o.MaintenanceCost, o.TotalAnnualCost)
	writeCostRow(doc, "Overhead", o.Overhead.Total, o.TotalAnnualCost)
	fmt.Fprintf(doc, "| **Total** | **%s** | 100%% |\n\n", format.Currency(o.TotalAnnualCost))

	if len(o.Materials) > 0 {
		doc.WriteString("### Raw Material Detail\n\n| Material | Annual Consumption (kg) | Unit Price | Annual Cost |\n|---|---|---|---|\n")
		for _, name := range sortedKeys(o.Materials) {
			m := o.Materials[name]
			fmt.Fprintf(doc, "| %s | %s | $%.2f/kg | %s |\n",
				name, format.Comma(m.AnnualConsumption, 0), m.UnitPrice, format.Currency(m.AnnualCost))
		}
		doc.WriteString("\n")
	}
}

func writeCostRow(doc *strings.Builder, label string, cost, total float64) {
	share := 0.0
	if total > 0 {
		share = cost / total * 100
	}
	fmt.Fprintf(doc, "| %s | %s | %s |\n", label, format.Currency(cost), format.Percent(share, 1))
}

func writeProfitability(doc *strings.Builder, in Input) {
	if in.Profitability == nil {
		return
	}
	p := in.Profitability
	doc.WriteString("## Profitability Analysis\n\n")
	doc.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(doc, "| NPV | %s |\n", format.Currency(p.NPV))
	fmt.Fprintf(doc, "| IRR | %s |\n", format.Percent(p.IRRPct, 2))
	fmt.Fprintf(doc, "| Payback period | %.1f years |\n", p.PaybackPeriod)
	fmt.Fprintf(doc, "| ROI | %s |\n", format.Percent(p.ROIPct, 1))
	fmt.Fprintf(doc, "| Annual cash flow | %s |\n", format.Currency(p.AnnualCashFlow))
	fmt.Fprintf(doc, "| Break-even price | %s |\n", format.Currency(p.BreakEvenPrice))
	if len(p.CashFlows) > 1 {
		doc.WriteString("\n### Cash Flow Profile\n\n| Year | Cash Flow |\n|---|---|\n")
		for year, cf := range p.CashFlows {
			fmt.Fprintf(doc, "| %d | %s |\n", year, format.Currency(cf))
		}
	}
	doc.WriteString("\n")
}

func writeSensitivity(doc *strings.Builder, in Input) {
	if len(in.Sensitivity) == 0 {
		return
	}
	doc.WriteString("## Sensitivity Analysis\n\n")
	doc.WriteString("| Parameter | Change | NPV | IRR |\n|---|---|---|---|\n")
	for _, point := range in.Sensitivity {
		fmt.Fprintf(doc, "| %s | %+.0f%% | %s | %s |\n",
			point.Parameter, point.ChangePct, format.Currency(point.NPV), format.Percent(point.IRRPct, 1))
	}
	doc.WriteString("\n")
}

func writeAIInsights(doc *strings.Builder, in Input) {
	insights := strings.TrimSpace(in.AIInsights)
	if insights == "" {
		return
	}
	doc.WriteString("## AI Insights\n\n")
	doc.WriteString(insights)
	doc.WriteString("\n\n")
}

func writeRecommendations(doc *strings.Builder, in Input) {
	doc.WriteString("## Recommendations\n\n")
	if in.Profitability == nil {
		doc.WriteString("- Complete the profitability analysis before making an investment decision.\n\n")
		return
	}
	p := in.Profitability
	fmt.Fprintf(doc, "- **Investment decision:** %s\n", Verdict(p))
	if p.PaybackPeriod > 5 {
		fmt.Fprintf(doc, "- Payback of %.1f years exceeds the typical 5-year target; pursue capital or operating cost reductions.\n", p.PaybackPeriod)
	}
	if in.Operating != nil && in.Operating.TotalAnnualCost > 0 {
		if share := in.Operating.TotalMaterialCost / in.Operating.TotalAnnualCost; share > 0.5 {
			fmt.Fprintf(doc, "- Raw materials are %s of operating cost; negotiate long-term supply contracts and evaluate substitutes.\n", format.Percent(share*100, 0))
		}
		if share := in.Operating.TotalUtilityCost / in.Operating.TotalAnnualCost; share > 0.2 {
			fmt.Fprintf(doc, "- Utilities are %s of operating cost; study heat integration and energy recovery.\n", format.Percent(share*100, 0))
		}
	}
	if p.NPV > 0 && p.IRRPct <= 12 {
		doc.WriteString("- Returns clear the discount rate but trail typical chemical industry hurdle rates; revisit pricing and scale assumptions.\n")
	}
	doc.WriteString("- Validate cost estimates with vendor quotations before final investment decision.\n\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
