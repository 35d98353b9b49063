package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/format"
	"github.com/chemeconai/chemecon/internal/llm"
)

// ProcessContext is the structured process description attached to advisory
// prompts.
type ProcessContext struct {
	ProcessType    string   `json:"process_type,omitempty"`
	ProductionRate float64  `json:"production_rate,omitempty"`
	RawMaterials   []string `json:"raw_materials,omitempty"`
	Products       []string `json:"products,omitempty"`
	Investment     float64  `json:"investment,omitempty"`
	OperatingHours int      `json:"operating_hours,omitempty"`
}

// Metrics are the headline economics supplied to analysis prompts.
type Metrics struct {
	NPV           float64 `json:"npv"`
	IRRPct        float64 `json:"irr"`
	PaybackPeriod float64 `json:"payback"`
	ROIPct        float64 `json:"roi"`
	CapitalCost   float64 `json:"capex"`
	OperatingCost float64 `json:"opex"`
	Revenue       float64 `json:"revenue"`
}

// Alternative is one option in a comparison request.
type Alternative struct {
	Name          string  `json:"name"`
	NPV           float64 `json:"npv"`
	IRRPct        float64 `json:"irr"`
	PaybackPeriod float64 `json:"payback"`
	CapitalCost   float64 `json:"capex"`
}

// ProjectSummary feeds the executive summary prompt.
type ProjectSummary struct {
	Name           string  `json:"name"`
	Investment     float64 `json:"investment"`
	NPV            float64 `json:"npv"`
	IRRPct         float64 `json:"irr"`
	PaybackPeriod  float64 `json:"payback"`
	ProductionRate float64 `json:"production_rate"`
}

// Advisor builds process economics prompts and runs them through the chat
// provider.
type Advisor struct {
	provider llm.Provider
}

func NewAdvisor(provider llm.Provider) *Advisor {
	return &Advisor{provider: provider}
}

const advisorSystemPrompt = "You are an expert chemical process economics consultant with deep industry knowledge."

// Advice answers a free-form question grounded in the supplied process data.
func (a *Advisor) Advice(ctx context.Context, process ProcessContext, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question required")
	}
	prompt := fmt.Sprintf(`You are an expert Chemical Process Economics advisor with 20+ years of industry experience.

PROCESS DATA:
%s

USER QUESTION: %s

Please provide:
1. Direct answer to the question
2. Specific recommendations with numbers where possible
3. Key considerations and trade-offs
4. Industry benchmarks or typical ranges
5. Potential risks and opportunities

Be concise, practical, and data-driven. Use specific chemical engineering terminology.`, buildProcessContext(process), question)
	return a.chat(ctx, prompt, 0.3, 1024)
}

// AnalyzeEconomics reviews computed metrics against industry benchmarks.
func (a *Advisor) AnalyzeEconomics(ctx context.Context, metrics Metrics) (string, error) {
	prompt := fmt.Sprintf(`Analyze these chemical process economics calculations:

NPV: %s
IRR: %s
Payback Period: %.1f years
ROI: %s
Capital Cost: %s
Annual Operating Cost: %s
Annual Revenue: %s

Provide:
1. Overall investment attractiveness (1-10 scale with reasoning)
2. Key financial strengths and weaknesses
3. Comparison to typical chemical industry standards
4. Top 3 specific improvement recommendations
5. Major risk factors to monitor

Be specific and actionable in your analysis.`,
		format.Currency(metrics.NPV),
		format.Percent(metrics.IRRPct, 2),
		metrics.PaybackPeriod,
		format.Percent(metrics.ROIPct, 2),
		format.Currency(metrics.CapitalCost),
		format.Currency(metrics.OperatingCost),
		format.Currency(metrics.Revenue))
	return a.chat(ctx, prompt, 0.2, 1024)
}

// OptimizeCosts asks for ranked cost reduction opportunities over an
// arbitrary cost breakdown.
func (a *Advisor) OptimizeCosts(ctx context.Context, breakdown map[string]float64) (string, error) {
	if len(breakdown) == 0 {
		return "", fmt.Errorf("cost breakdown required")
	}
	encoded, err := json.MarshalIndent(breakdown, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode cost breakdown: %w", err)
	}
	prompt := fmt.Sprintf(`Cost breakdown for chemical process:
%s

Identify the top 5 cost optimization opportunities with:
1. Specific cost category to target
2. Potential savings percentage (be realistic)
3. Implementation difficulty (Low/Medium/High)
4. Implementation timeline (weeks/months)
5. Required actions and investments

Focus on proven chemical industry strategies. Consider:
- Process intensification
- Heat integration
- Raw material substitution
- Yield improvements
- Utility optimization
- Automation opportunities`, string(encoded))
	return a.chat(ctx, prompt, 0.3, 1024)
}

// ExecutiveSummary drafts an investment-decision summary for executives.
func (a *Advisor) ExecutiveSummary(ctx context.Context, project ProjectSummary) (string, error) {
	name := project.Name
	if strings.TrimSpace(name) == "" {
		name = "Chemical Process Investment"
	}
	prompt := fmt.Sprintf(`Generate a professional executive summary for this chemical process investment:

Project: %s
Investment: %s
NPV: %s
IRR: %s
Payback: %.1f years
Production: %s tons/year

Create a 200-300 word executive summary for C-suite decision makers covering:
1. Project overview and strategic fit
2. Financial highlights and value proposition
3. Clear investment recommendation (Approve/Reject/Modify)
4. Key risks and mitigation strategies
5. Next steps and timeline

Write professionally for executives making multi-million dollar decisions.`,
		name,
		format.Currency(project.Investment),
		format.Currency(project.NPV),
		format.Percent(project.IRRPct, 1),
		project.PaybackPeriod,
		format.Comma(project.ProductionRate, 0))
	return a.chat(ctx, prompt, 0.2, 512)
}

// CompareAlternatives ranks competing process options.
func (a *Advisor) CompareAlternatives(ctx context.Context, alternatives []Alternative) (string, error) {
	if len(alternatives) < 2 {
		return "", fmt.Errorf("at least two alternatives required")
	}
	var comparison strings.Builder
	for i, alt := range alternatives {
		name := alt.Name
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Option %d", i+1)
		}
		fmt.Fprintf(&comparison, "\nAlternative %d: %s\n", i+1, name)
		fmt.Fprintf(&comparison, "- NPV: %s\n", format.Currency(alt.NPV))
		fmt.Fprintf(&comparison, "- IRR: %s\n", format.Percent(alt.IRRPct, 1))
		fmt.Fprintf(&comparison, "- Payback: %.1f years\n", alt.PaybackPeriod)
		fmt.Fprintf(&comparison, "- CAPEX: %s\n", format.Currency(alt.CapitalCost))
	}
	prompt := fmt.Sprintf(`Compare these chemical process alternatives:
%s

Provide:
1. Ranking with clear rationale
2. Trade-off analysis between options
3. Risk comparison
4. Recommendation for different scenarios (risk-averse vs aggressive growth)
5. Decision criteria that matter most

Consider both financial metrics and strategic factors.`, comparison.String())
	return a.chat(ctx, prompt, 0.3, 1024)
}

func (a *Advisor) chat(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if a.provider == nil {
		return "", fmt.Errorf("no chat provider configured")
	}
	logger := common.Logger()
	logger.Debug("insight: advisory request", "provider", a.provider.Name(), "prompt_length", len(prompt))
	answer, err := a.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: advisorSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		logger.Error("insight: advisory request failed", "error", err)
		return "", fmt.Errorf("advisory request: %w", err)
	}
	return answer, nil
}

func buildProcessContext(data ProcessContext) string {
	var parts []string
	if data.ProcessType != "" {
		parts = append(parts, "Process Type: "+data.ProcessType)
	}
	if data.ProductionRate > 0 {
		parts = append(parts, fmt.Sprintf("Production Rate: %s tons/year", format.Comma(data.ProductionRate, 0)))
	}
	if len(data.RawMaterials) > 0 {
		parts = append(parts, "Raw Materials: "+strings.Join(data.RawMaterials, ", "))
	}
	if len(data.Products) > 0 {
		parts = append(parts, "Products: "+strings.Join(data.Products, ", "))
	}
	if data.Investment > 0 {
		parts = append(parts, "Total Investment: "+format.Currency(data.Investment))
	}
	if data.OperatingHours > 0 {
		parts = append(parts, fmt.Sprintf("Operating Hours: %d hours/year", data.OperatingHours))
	}
	if len(parts) == 0 {
		return "No specific process data provided"
	}
	return strings.Join(parts, "\n")
}
