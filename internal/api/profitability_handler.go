package api

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"

	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/economics"
)

func (s *Server) handleProfitability(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var inputs economics.ProfitabilityInputs
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		logger.Warn("api: profitability decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := economics.AnalyzeProfitability(inputs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	logger.Info("api: profitability analyzed", "npv", result.NPV, "irr_pct", result.IRRPct)
	writeJSON(w, http.StatusOK, result)
}

type sensitivityRequest struct {
	Base   economics.ProfitabilityInputs `json:"base"`
	Ranges map[string][]float64          `json:"ranges"`
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req sensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: sensitivity decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Ranges) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("sensitivity ranges required"))
		return
	}
	points, err := economics.Sensitivity(req.Base, req.Ranges)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	logger.Info("api: sensitivity computed", "points", len(points))
	writeJSON(w, http.StatusOK, map[string]interface{}{"points": points})
}

type monteCarloRequest struct {
	Base          economics.ProfitabilityInputs     `json:"base"`
	Distributions map[string]economics.Distribution `json:"distributions"`
	Simulations   int                               `json:"simulations,omitempty"`
	Seed          uint64                            `json:"seed,omitempty"`
}

func (s *Server) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req monteCarloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: monte carlo decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Distributions) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parameter distributions required"))
		return
	}
	var rng *rand.Rand
	if req.Seed != 0 {
		rng = rand.New(rand.NewPCG(req.Seed, req.Seed))
	}
	results, summary, err := economics.MonteCarlo(req.Base, req.Distributions, req.Simulations, rng)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	logger.Info("api: monte carlo completed", "runs", summary.Runs, "failed", summary.Failed)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": summary,
		"results": results,
	})
}
