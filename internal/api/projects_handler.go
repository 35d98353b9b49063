package api

import (
	"encoding/json"
	"errors"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/chemeconai/chemecon/internal/catalog"
	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/project"
)

func (s *Server) handleProjectCreate(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var def project.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		logger.Warn("api: project decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	record, err := s.projects.Create(r.Context(), def)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleProjectList(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

func (s *Server) handleProjectGet(w http.ResponseWriter, r *http.Request) {
	record, err := s.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleProjectAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	id := chi.URLParam(r, "id")
	result, err := s.projects.Analyze(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
		} else {
			writeError(w, http.StatusBadRequest, err)
		}
		return
	}
	logger.Info("api: project analysis completed", "project_id", id)
	writeJSON(w, http.StatusOK, result)
}
