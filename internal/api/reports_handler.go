package api

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/report"
)

type reportRequest struct {
	report.Input
	Sections []string `json:"sections,omitempty"`
}

func (s *Server) handleReportCreate(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: report decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	generated, err := s.reports.Generate(req.Input, req.Sections)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.reports.Save(r.Context(), generated); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: report created", "report_id", generated.ID, "project_id", generated.ProjectID)
	writeJSON(w, http.StatusCreated, generated)
}

func (s *Server) handleReportGet(w http.ResponseWriter, r *http.Request) {
	stored, err := s.store.ReportByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}
