package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bobmcallan/partygate/internal/clients/fflogs"
	"github.com/bobmcallan/partygate/internal/models"
)

// --- Check handlers ---

func (s *Server) handleCheckParty(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	report, err := s.app.ThresholdService.CheckParty(r.Context(), models.TriggerManual)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Party check failed: %v", err))
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

func (s *Server) handleCheckPlayer(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		World     string `json:"world"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.World == "" {
		WriteError(w, http.StatusBadRequest, "first_name, last_name and world are required")
		return
	}

	report, err := s.app.ThresholdService.CheckPlayer(r.Context(), req.FirstName, req.LastName, req.World)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Player check failed: %v", err))
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// handleCommand handles POST /api/command, executing a relayed text command.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Command string `json:"command"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.Dispatch(r.Context(), req.Command)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleReports returns the retained cycle reports, newest last.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reports": s.app.Notifier.History(),
	})
}

// --- Logs API administration ---

func (s *Server) handleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := s.app.LogsClient.RefreshToken(r.Context()); err != nil {
		var authErr *fflogs.AuthError
		if errors.As(err, &authErr) || errors.Is(err, fflogs.ErrMissingCredentials) {
			WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Token refresh failed: %v", err))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token_valid": s.app.LogsClient.TokenValid(),
	})
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	s.app.LogsClient.ClearCache()
	WriteJSON(w, http.StatusOK, map[string]interface{}{"cleared": true})
}

// handleDashboard handles POST /api/dashboard: the full multi-zone ranking
// payload for one character, with the request's display filters applied.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var character models.Character
	if !DecodeJSON(w, r, &character) {
		return
	}
	if character.FirstName == "" || character.LastName == "" || character.World == "" {
		WriteError(w, http.StatusBadRequest, "first_name, last_name and world are required")
		return
	}

	payload, err := s.app.LogsClient.FetchDashboardData(r.Context(), &character)
	if err != nil {
		var authErr *fflogs.AuthError
		if errors.As(err, &authErr) || errors.Is(err, fflogs.ErrTokenInvalid) {
			WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		var worldErr *fflogs.UnknownWorldError
		if errors.As(err, &worldErr) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Dashboard fetch failed: %v", err))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"character": character.Identity(),
		"data":      payload,
	})
}

// handleDashboardInvalidate handles POST /api/dashboard/invalidate, dropping
// the cached dashboard entry matching the character's query shape.
func (s *Server) handleDashboardInvalidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var character models.Character
	if !DecodeJSON(w, r, &character) {
		return
	}
	if character.FirstName == "" || character.LastName == "" || character.World == "" {
		WriteError(w, http.StatusBadRequest, "first_name, last_name and world are required")
		return
	}

	s.app.LogsClient.Invalidate(&character)
	WriteJSON(w, http.StatusOK, map[string]interface{}{"invalidated": true})
}
