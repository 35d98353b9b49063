package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/process"
)

type reactorRequest struct {
	Inlet    process.Stream   `json:"inlet"`
	Reaction process.Reaction `json:"reaction"`
}

func (s *Server) handleBalanceReactor(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req reactorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: reactor decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	balance := process.NewBalance()
	if req.Inlet.Name == "" {
		req.Inlet.Name = "inlet"
	}
	if req.Reaction.Name == "" {
		req.Reaction.Name = "reaction"
	}
	if err := balance.AddStream(req.Inlet); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := balance.AddReaction(req.Reaction); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := balance.ReactorOutlet(req.Inlet.Name, req.Reaction.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	logger.Info("api: reactor balance computed",
		"limiting_reactant", result.LimitingReactant, "conversion", result.ConversionAchieved)
	writeJSON(w, http.StatusOK, result)
}

type balanceCheckRequest struct {
	Inlets    []process.Stream `json:"inlets"`
	Outlets   []process.Stream `json:"outlets"`
	Tolerance float64          `json:"tolerance,omitempty"`
}

func (s *Server) handleBalanceCheck(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req balanceCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: balance check decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	balance := process.NewBalance()
	inletNames := make([]string, 0, len(req.Inlets))
	for i, stream := range req.Inlets {
		if stream.Name == "" {
			stream.Name = fmt.Sprintf("inlet_%d", i+1)
		}
		if err := balance.AddStream(stream); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		inletNames = append(inletNames, stream.Name)
	}
	outletNames := make([]string, 0, len(req.Outlets))
	for i, stream := range req.Outlets {
		if stream.Name == "" {
			stream.Name = fmt.Sprintf("outlet_%d", i+1)
		}
		if err := balance.AddStream(stream); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		outletNames = append(outletNames, stream.Name)
	}
	result := balance.Check(inletNames, outletNames, req.Tolerance)
	logger.Info("api: balance check computed", "balanced", result.Balanced, "error_pct", result.RelativeErrorPct)
	writeJSON(w, http.StatusOK, result)
}
