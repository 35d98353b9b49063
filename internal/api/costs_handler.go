package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/economics"
	"github.com/chemeconai/chemecon/internal/market"
)

type equipmentCostRequest struct {
	Item     economics.EquipmentItem `json:"item"`
	CostYear int                     `json:"cost_year,omitempty"`
}

func (s *Server) handleEquipmentCost(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req equipmentCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: equipment cost decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Item.Type == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("equipment type required"))
		return
	}
	estimator := economics.NewCapitalEstimator(market.NewCostSource(s.store), costYear(req.CostYear))
	cost, err := estimator.EstimateEquipment(r.Context(), req.Item)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	logger.Info("api: equipment costed", "type", cost.Type, "total_cost", cost.TotalCost)
	writeJSON(w, http.StatusOK, cost)
}

type capitalCostRequest struct {
	Equipment []economics.EquipmentItem `json:"equipment"`
	PlantType string                    `json:"plant_type,omitempty"`
	CostYear  int                       `json:"cost_year,omitempty"`
}

func (s *Server) handleCapitalCost(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req capitalCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: capital cost decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Equipment) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("equipment list required"))
		return
	}
	estimator := economics.NewCapitalEstimator(market.NewCostSource(s.store), costYear(req.CostYear))
	breakdown, err := estimator.Estimate(r.Context(), req.Equipment, req.PlantType)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	logger.Info("api: capital estimated",
		"items", len(req.Equipment), "total_capital_investment", breakdown.TotalCapitalInvestment)
	writeJSON(w, http.StatusOK, breakdown)
}

type operatingCostRequest struct {
	economics.OperatingInputs
	Region string `json:"region,omitempty"`
}

func (s *Server) handleOperatingCost(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req operatingCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: operating cost decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	calculator := economics.NewOperatingCalculator()
	if req.Region != "" {
		for _, demand := range req.Utilities {
			cost, err := s.store.UtilityCostFor(r.Context(), demand.Type, req.Region)
			if err != nil {
				continue
			}
			calculator.WithUtilityPrice(cost.Type, cost.Cost)
		}
	}
	breakdown, err := calculator.Calculate(req.OperatingInputs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	logger.Info("api: operating costs estimated", "total_annual_cost", breakdown.TotalAnnualCost)
	writeJSON(w, http.StatusOK, breakdown)
}

func costYear(year int) int {
	if year > 0 {
		return year
	}
	return time.Now().Year()
}
