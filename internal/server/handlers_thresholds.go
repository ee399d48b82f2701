package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bobmcallan/partygate/internal/models"
	"github.com/bobmcallan/partygate/internal/services/threshold"
)

// --- Threshold settings handlers ---

// handleSettings handles GET and PUT /api/settings.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, s.app.ThresholdService.Settings())

	case http.MethodPut:
		var req models.ThresholdSettings
		if !DecodeJSON(w, r, &req) {
			return
		}
		if err := s.app.ThresholdService.UpdateSettings(req); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Settings update failed: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, s.app.ThresholdService.Settings())

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

// handleThresholds handles GET and POST /api/thresholds.
func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"thresholds": s.app.ThresholdService.Thresholds(),
		})

	case http.MethodPost:
		var req models.EncounterThreshold
		if !DecodeJSON(w, r, &req) {
			return
		}
		if err := s.app.ThresholdService.AddThreshold(req); err != nil {
			writeThresholdError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"thresholds": s.app.ThresholdService.Thresholds(),
		})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeThreshold handles PUT and DELETE /api/thresholds/{encounterID}.
func (s *Server) routeThreshold(w http.ResponseWriter, r *http.Request) {
	idStr := PathParam(r, "/api/thresholds/", "")
	encounterID, err := strconv.Atoi(idStr)
	if err != nil || encounterID <= 0 {
		WriteError(w, http.StatusBadRequest, "Invalid encounter id: "+idStr)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req models.EncounterThreshold
		if !DecodeJSON(w, r, &req) {
			return
		}
		// Enabling auto-remove is a destructive policy change: the first PUT
		// without ?confirm=true is rejected so the caller can surface a prompt.
		confirm := r.URL.Query().Get("confirm") == "true"
		if err := s.app.ThresholdService.UpdateThreshold(encounterID, req, confirm); err != nil {
			writeThresholdError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"thresholds": s.app.ThresholdService.Thresholds(),
		})

	case http.MethodDelete:
		if err := s.app.ThresholdService.RemoveThreshold(encounterID); err != nil {
			writeThresholdError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"thresholds": s.app.ThresholdService.Thresholds(),
		})

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// writeThresholdError maps threshold service errors to HTTP status codes.
func writeThresholdError(w http.ResponseWriter, err error) {
	var cfgErr *models.ConfigError
	switch {
	case errors.Is(err, threshold.ErrAutoRemoveConfirmation):
		WriteErrorWithCode(w, http.StatusConflict, err.Error(), "confirmation_required")
	case errors.Is(err, threshold.ErrThresholdNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, threshold.ErrThresholdExists):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.As(err, &cfgErr):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
