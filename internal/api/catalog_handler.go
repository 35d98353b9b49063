package api

import (
	"fmt"
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"

	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/market"
)

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := s.store.ListMaterials(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"materials": materials})
}

func (s *Server) handleMaterial(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	price, err := s.market.MaterialPrice(r.Context(), name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, price)
}

func (s *Server) handleMaterialForecast(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	name := chi.URLParam(r, "name")
	years := 5
	if raw := r.URL.Query().Get("years"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 30 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("years must be between 1 and 30"))
			return
		}
		years = parsed
	}
	forecast, err := s.market.PriceForecast(r.Context(), name, years)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	logger.Info("api: price forecast generated", "material", name, "years", years)
	writeJSON(w, http.StatusOK, forecast)
}

func (s *Server) handleUtilities(w http.ResponseWriter, r *http.Request) {
	costs, err := s.store.ListUtilityCosts(r.Context(), r.URL.Query().Get("region"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"utilities":        costs,
		"regional_factors": market.RegionalFactors(),
	})
}

func (s *Server) handleEquipment(w http.ResponseWriter, r *http.Request) {
	equipment, err := s.store.ListEquipment(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"equipment": equipment})
}
