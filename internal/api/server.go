package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/chemeconai/chemecon/internal/catalog"
	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/insight"
	"github.com/chemeconai/chemecon/internal/llm"
	"github.com/chemeconai/chemecon/internal/market"
	"github.com/chemeconai/chemecon/internal/project"
	"github.com/chemeconai/chemecon/internal/report"
)

type Server struct {
	router   chi.Router
	store    *catalog.Store
	market   *market.Provider
	provider llm.Provider
	advisor  *insight.Advisor
	projects *project.Runner
	reports  *report.Builder
}

func NewServer(store *catalog.Store, provider llm.Provider) (*Server, error) {
	logger := common.Logger()
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	providerName := "unknown"
	if provider != nil {
		providerName = provider.Name()
	}
	logger.Info("api: building server", "provider", providerName)
	srv := &Server{
		router:   chi.NewRouter(),
		store:    store,
		market:   market.NewProvider(store),
		provider: provider,
		advisor:  insight.NewAdvisor(provider),
		projects: project.NewRunner(store),
		reports:  report.NewBuilder(store),
	}
	srv.routes()
	logger.Info("api: server ready")
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	logger.Info("api: configuring routes")
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/v1/balance/reactor", s.handleBalanceReactor)
	s.router.Post("/v1/balance/check", s.handleBalanceCheck)
	s.router.Post("/v1/costs/equipment", s.handleEquipmentCost)
	s.router.Post("/v1/costs/capital", s.handleCapitalCost)
	s.router.Post("/v1/costs/operating", s.handleOperatingCost)
	s.router.Post("/v1/profitability", s.handleProfitability)
	s.router.Post("/v1/profitability/sensitivity", s.handleSensitivity)
	s.router.Post("/v1/profitability/montecarlo", s.handleMonteCarlo)
	s.router.Get("/v1/materials", s.handleMaterials)
	s.router.Get("/v1/materials/{name}", s.handleMaterial)
	s.router.Get("/v1/materials/{name}/forecast", s.handleMaterialForecast)
	s.router.Get("/v1/utilities", s.handleUtilities)
	s.router.Get("/v1/equipment", s.handleEquipment)
	s.router.Post("/v1/projects", s.handleProjectCreate)
	s.router.Get("/v1/projects", s.handleProjectList)
	s.router.Get("/v1/projects/{id}", s.handleProjectGet)
	s.router.Post("/v1/projects/{id}/analyze", s.handleProjectAnalyze)
	s.router.Post("/v1/insights/chat", s.handleInsightChat)
	s.router.Post("/v1/insights/economics", s.handleInsightEconomics)
	s.router.Post("/v1/insights/optimize", s.handleInsightOptimize)
	s.router.Post("/v1/insights/compare", s.handleInsightCompare)
	s.router.Post("/v1/reports", s.handleReportCreate)
	s.router.Get("/v1/reports/{id}", s.handleReportGet)
	s.router.Get("/v1/logs", s.handleLogs)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": common.LogEntries()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeStoreError maps catalog lookups onto 404 versus 500.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}
