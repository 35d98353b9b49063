package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/insight"
)

type insightChatRequest struct {
	Process  insight.ProcessContext `json:"process"`
	Question string                 `json:"question"`
}

func (s *Server) handleInsightChat(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req insightChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: insight chat decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("question required"))
		return
	}
	answer, err := s.advisor.Advice(r.Context(), req.Process, req.Question)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	logger.Info("api: insight chat succeeded", "provider", s.provider.Name())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"answer":   answer,
		"provider": s.provider.Name(),
	})
}

func (s *Server) handleInsightEconomics(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var metrics insight.Metrics
	if err := json.NewDecoder(r.Body).Decode(&metrics); err != nil {
		logger.Warn("api: insight economics decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	analysis, err := s.advisor.AnalyzeEconomics(r.Context(), metrics)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"analysis": analysis,
		"provider": s.provider.Name(),
	})
}

type insightOptimizeRequest struct {
	Breakdown map[string]float64 `json:"breakdown"`
}

func (s *Server) handleInsightOptimize(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req insightOptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: insight optimize decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Breakdown) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("cost breakdown required"))
		return
	}
	suggestions, err := s.advisor.OptimizeCosts(r.Context(), req.Breakdown)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"provider":    s.provider.Name(),
	})
}

type insightCompareRequest struct {
	Alternatives []insight.Alternative `json:"alternatives"`
}

func (s *Server) handleInsightCompare(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req insightCompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: insight compare decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Alternatives) < 2 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("at least two alternatives required"))
		return
	}
	comparison, err := s.advisor.CompareAlternatives(r.Context(), req.Alternatives)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"comparison": comparison,
		"provider":   s.provider.Name(),
	})
}
