package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chemeconai/chemecon/internal/catalog"
	"github.com/chemeconai/chemecon/internal/llm"
)

type mockProvider struct {
	answer string
	err    error
}

func (m *mockProvider) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockProvider) Name() string { return "mock" }

func newTestServer(t *testing.T, provider llm.Provider) *Server {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if provider == nil {
		provider = &mockProvider{answer: "mock insight"}
	}
	srv, err := NewServer(store, provider)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestBalanceReactorEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := doJSON(t, srv, http.MethodPost, "/v1/balance/reactor", map[string]interface{}{
		"inlet": map[string]interface{}{
			"name":       "feed",
			"components": map[string]float64{"a": 100, "b": 80},
		},
		"reaction": map[string]interface{}{
			"name":          "combine",
			"stoichiometry": map[string]float64{"a": -1, "b": -0.5, "c": 1.5},
			"conversion":    0.9,
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Limiting   string             `json:"limiting_reactant"`
		Components map[string]float64 `json:"components"`
	}
	decodeBody(t, rr, &resp)
	if resp.Limiting != "a" {
		t.Fatalf("limiting = %q, want a", resp.Limiting)
	}
	if resp.Components["c"] <= 0 {
		t.Fatalf("product flow = %f, want positive", resp.Components["c"])
	}
}

func TestBalanceReactorRejectsBadJSON(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/balance/reactor", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp map[string]string
	decodeBody(t, rr, &resp)
	if resp["error"] == "" {
		t.Fatal("expected error body")
	}
}

func TestBalanceCheckEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := doJSON(t, srv, http.MethodPost, "/v1/balance/check", map[string]interface{}{
		"inlets":  []map[string]interface{}{{"components": map[string]float64{"a": 100}}},
		"outlets": []map[string]interface{}{{"components": map[string]float64{"a": 100}}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Balanced bool `json:"is_balanced"`
	}
	decodeBody(t, rr, &resp)
	if !resp.Balanced {
		t.Fatal("expected balanced result")
	}
}

func TestCapitalCostEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := doJSON(t, srv, http.MethodPost, "/v1/costs/capital", map[string]interface{}{
		"equipment": []map[string]interface{}{
			{"type": "reactor_cstr", "capacity": 2000, "material": "stainless_steel"},
			{"type": "pump_centrifugal", "capacity": 150, "quantity": 2},
		},
		"plant_type": "chemical",
		"cost_year":  2023,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Total     float64 `json:"total_capital_investment"`
		PlantType string  `json:"plant_type"`
	}
	decodeBody(t, rr, &resp)
	if resp.Total <= 0 {
		t.Fatalf("total capital = %f, want positive", resp.Total)
	}
	if resp.PlantType != "chemical" {
		t.Fatalf("plant type = %q", resp.PlantType)
	}
}

func TestCapitalCostUnknownEquipment(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := doJSON(t, srv, http.MethodPost, "/v1/costs/capital", map[string]interface{}{
		"equipment": []map[string]interface{}{{"type": "teleporter", "capacity": 1}},
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestOperatingCostEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := doJSON(t, srv, http.MethodPost, "/v1/costs/operating", map[string]interface{}{
		"raw_materials":   []map[string]interface{}{{"name": "methanol", "price": 0.45, "consumption_rate": 500}},
		"production_rate": 5000,
		"utilities":       []map[string]interface{}{{"type": "electricity", "consumption": 1e6}},
		"region":          "europe_germany",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		TotalUtilityCost float64 `json:"total_utility_cost"`
		TotalAnnualCost  float64 `json:"total_annual_operating_cost"`
	}
	decodeBody(t, rr, &resp)
	// German electricity is 0.15/kWh versus the 0.08 default
	if resp.TotalUtilityCost != 150000 {
		t.Fatalf("utility cost = %f, want 150000", resp.TotalUtilityCost)
	}
	if resp.TotalAnnualCost <= 0 {
		t.Fatal("expected positive total")
	}
}

func TestProfitabilityEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := doJSON(t, srv, http.MethodPost, "/v1/profitability", map[string]interface{}{
		"capital_investment":     1e7,
		"annual_revenue":         6e6,
		"annual_operating_costs": 3e6,
		"project_lifetime":       10,
		"discount_rate":          0.1,
		"tax_rate":               0.25,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		NPV    float64 `json:"npv"`
		IRRPct float64 `json:"irr"`
	}
	decodeBody(t, rr, &resp)
	if resp.NPV <= 0 || resp.IRRPct <= 0 {
		t.Fatalf("unexpected metrics: %+v", resp)
	}

	bad := doJSON(t, srv, http.MethodPost, "/v1/profitability", map[string]interface{}{
		"capital_investment": 0,
	})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", bad.Code)
	}
}

func TestSensitivityEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	base := map[string]interface{}{
		"capital_investment":     1e7,
		"annual_revenue":         6e6,
		"annual_operating_costs": 3e6,
		"project_lifetime":       10,
		"discount_rate":          0.1,
		"tax_rate":               0.25,
	}
	rr := doJSON(t, srv, http.MethodPost, "/v1/profitability/sensitivity", map[string]interface{}{
		"base":   base,
		"ranges": map[string][]float64{"annual_revenue": {-20, 0, 20}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Points []struct {
			Parameter string  `json:"parameter"`
			NPV       float64 `json:"npv"`
		} `json:"points"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Points) != 3 {
		t.Fatalf("points = %d, want 3", len(resp.Points))
	}

	missing := doJSON(t, srv, http.MethodPost, "/v1/profitability/sensitivity", map[string]interface{}{"base": base})
	if missing.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", missing.Code)
	}
}

func TestMonteCarloEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := doJSON(t, srv, http.MethodPost, "/v1/profitability/montecarlo", map[string]interface{}{
		"base": map[string]interface{}{
			"capital_investment":     1e7,
			"annual_revenue":         6e6,
			"annual_operating_costs": 3e6,
			"project_lifetime":       10,
			"discount_rate":          0.1,
			"tax_rate":               0.25,
		},
		"distributions": map[string]interface{}{
			"annual_revenue": map[string]interface{}{"type": "uniform", "min": 5e6, "max": 7e6},
		},
		"simulations": 100,
		"seed":        42,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Summary struct {
			Runs int `json:"runs"`
		} `json:"summary"`
	}
	decodeBody(t, rr, &resp)
	if resp.Summary.Runs != 100 {
		t.Fatalf("runs = %d, want 100", resp.Summary.Runs)
	}
}

func TestMaterialEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	list := doJSON(t, srv, http.MethodGet, "/v1/materials", nil)
	if list.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", list.Code)
	}
	var listResp struct {
		Materials []struct {
			Name string `json:"material_name"`
		} `json:"materials"`
	}
	decodeBody(t, list, &listResp)
	if len(listResp.Materials) != 8 {
		t.Fatalf("materials = %d, want 8", len(listResp.Materials))
	}

	single := doJSON(t, srv, http.MethodGet, "/v1/materials/acetone", nil)
	if single.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", single.Code)
	}
	var priceResp struct {
		PriceRange [2]float64 `json:"price_range"`
	}
	decodeBody(t, single, &priceResp)
	if priceResp.PriceRange[0] >= priceResp.PriceRange[1] {
		t.Fatalf("degenerate price range: %+v", priceResp.PriceRange)
	}

	missing := doJSON(t, srv, http.MethodGet, "/v1/materials/unobtainium", nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", missing.Code)
	}

	forecast := doJSON(t, srv, http.MethodGet, "/v1/materials/methanol/forecast?years=3", nil)
	if forecast.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", forecast.Code)
	}
	var forecastResp struct {
		Prices []float64 `json:"forecasted_prices"`
	}
	decodeBody(t, forecast, &forecastResp)
	if len(forecastResp.Prices) != 3 {
		t.Fatalf("forecast years = %d, want 3", len(forecastResp.Prices))
	}

	badYears := doJSON(t, srv, http.MethodGet, "/v1/materials/methanol/forecast?years=200", nil)
	if badYears.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", badYears.Code)
	}
}

func TestUtilitiesAndEquipmentEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	utilities := doJSON(t, srv, http.MethodGet, "/v1/utilities?region=asia_china", nil)
	if utilities.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", utilities.Code)
	}
	var utilResp struct {
		Utilities []struct {
			Region string `json:"region"`
		} `json:"utilities"`
		RegionalFactors map[string]float64 `json:"regional_factors"`
	}
	decodeBody(t, utilities, &utilResp)
	if len(utilResp.Utilities) != 7 {
		t.Fatalf("utilities = %d, want 7", len(utilResp.Utilities))
	}
	if utilResp.RegionalFactors["usa_gulf_coast"] != 1.0 {
		t.Fatal("regional factors missing")
	}

	equipment := doJSON(t, srv, http.MethodGet, "/v1/equipment", nil)
	if equipment.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", equipment.Code)
	}
	var equipResp struct {
		Equipment []struct {
			Type string `json:"equipment_type"`
		} `json:"equipment"`
	}
	decodeBody(t, equipment, &equipResp)
	if len(equipResp.Equipment) != 6 {
		t.Fatalf("equipment = %d, want 6", len(equipResp.Equipment))
	}
}

func projectPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":            "Ethanol Plant",
		"process_type":    "continuous",
		"location":        "usa_gulf_coast",
		"production_rate": 10000,
		"operating_hours": 8000,
		"raw_materials":   []map[string]interface{}{{"name": "ethylene", "price": 1.1, "consumption_rate": 650}},
		"products":        []map[string]interface{}{{"name": "ethanol", "price_usd_per_kg": 2.5}},
		"equipment":       []map[string]interface{}{{"type": "reactor_cstr", "capacity": 5000}},
		"assumptions": map[string]interface{}{
			"project_lifetime": 15,
			"discount_rate":    0.1,
			"tax_rate":         0.25,
			"cost_year":        2023,
		},
	}
}

func TestProjectLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)

	created := doJSON(t, srv, http.MethodPost, "/v1/projects", projectPayload())
	if created.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d body=%s", created.Code, created.Body.String())
	}
	var record struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeBody(t, created, &record)
	if record.ID == "" || record.Status != "defined" {
		t.Fatalf("unexpected record: %+v", record)
	}

	analyzed := doJSON(t, srv, http.MethodPost, "/v1/projects/"+record.ID+"/analyze", nil)
	if analyzed.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", analyzed.Code, analyzed.Body.String())
	}
	var result struct {
		AnnualRevenue float64 `json:"annual_revenue"`
		Profitability struct {
			NPV float64 `json:"npv"`
		} `json:"profitability"`
	}
	decodeBody(t, analyzed, &result)
	if result.AnnualRevenue != 2.5e7 {
		t.Fatalf("revenue = %f, want 2.5e7", result.AnnualRevenue)
	}

	fetched := doJSON(t, srv, http.MethodGet, "/v1/projects/"+record.ID, nil)
	if fetched.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", fetched.Code)
	}
	var stored struct {
		Status string `json:"status"`
	}
	decodeBody(t, fetched, &stored)
	if stored.Status != "analyzed" {
		t.Fatalf("status = %q, want analyzed", stored.Status)
	}

	missing := doJSON(t, srv, http.MethodPost, "/v1/projects/nope/analyze", nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", missing.Code)
	}

	invalid := projectPayload()
	invalid["process_type"] = "quantum"
	rejected := doJSON(t, srv, http.MethodPost, "/v1/projects", invalid)
	if rejected.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rejected.Code)
	}
}

func TestInsightEndpoints(t *testing.T) {
	srv := newTestServer(t, &mockProvider{answer: "do the thing"})

	chat := doJSON(t, srv, http.MethodPost, "/v1/insights/chat", map[string]interface{}{
		"process":  map[string]interface{}{"process_type": "continuous"},
		"question": "Is this viable?",
	})
	if chat.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", chat.Code, chat.Body.String())
	}
	var chatResp struct {
		Answer   string `json:"answer"`
		Provider string `json:"provider"`
	}
	decodeBody(t, chat, &chatResp)
	if chatResp.Answer != "do the thing" || chatResp.Provider != "mock" {
		t.Fatalf("unexpected response: %+v", chatResp)
	}

	noQuestion := doJSON(t, srv, http.MethodPost, "/v1/insights/chat", map[string]interface{}{})
	if noQuestion.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", noQuestion.Code)
	}

	economics := doJSON(t, srv, http.MethodPost, "/v1/insights/economics", map[string]interface{}{
		"npv": 1e6, "irr": 15.0,
	})
	if economics.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", economics.Code)
	}

	optimize := doJSON(t, srv, http.MethodPost, "/v1/insights/optimize", map[string]interface{}{
		"breakdown": map[string]float64{"raw_materials": 5e6},
	})
	if optimize.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", optimize.Code)
	}

	compare := doJSON(t, srv, http.MethodPost, "/v1/insights/compare", map[string]interface{}{
		"alternatives": []map[string]interface{}{{"name": "A"}},
	})
	if compare.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", compare.Code)
	}
}

func TestInsightProviderFailureMapsToBadGateway(t *testing.T) {
	srv := newTestServer(t, &mockProvider{err: fmt.Errorf("upstream down")})
	rr := doJSON(t, srv, http.MethodPost, "/v1/insights/economics", map[string]interface{}{"npv": 1.0})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestReportEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	created := doJSON(t, srv, http.MethodPost, "/v1/reports", map[string]interface{}{
		"project_name": "Ethanol Plant",
		"profitability": map[string]interface{}{
			"npv": 5e6, "irr": 18.0, "payback_period": 4.1, "roi": 25.0,
		},
		"sections": []string{"executive_summary", "recommendations"},
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d body=%s", created.Code, created.Body.String())
	}
	var reportResp struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}
	decodeBody(t, created, &reportResp)
	if !strings.Contains(reportResp.Content, "APPROVED") {
		t.Fatalf("expected approval verdict in report:\n%s", reportResp.Content)
	}

	fetched := doJSON(t, srv, http.MethodGet, "/v1/reports/"+reportResp.ID, nil)
	if fetched.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", fetched.Code)
	}

	missing := doJSON(t, srv, http.MethodGet, "/v1/reports/nope", nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", missing.Code)
	}

	badSection := doJSON(t, srv, http.MethodPost, "/v1/reports", map[string]interface{}{
		"project_name": "X",
		"sections":     []string{"appendix"},
	})
	if badSection.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", badSection.Code)
	}
}

func TestLogsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := doJSON(t, srv, http.MethodGet, "/v1/logs", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp struct {
		Entries []struct {
			Message string `json:"message"`
		} `json:"entries"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Entries) == 0 {
		t.Fatal("expected captured log entries from server construction")
	}
}
