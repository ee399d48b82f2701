package server

import (
	"net/http"

	"github.com/bobmcallan/partygate/internal/models"
)

// --- Game-state push handlers ---

// handleRosterPush handles POST /api/gamestate/roster: the plugin pushes the
// full party snapshot. Join-triggered checks fire from the orchestrator's
// diff, not from the push itself.
func (s *Server) handleRosterPush(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Members []models.RosterMember `json:"members"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	s.app.GameState.SetRoster(req.Members)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accepted": len(req.Members),
	})
}

// handleIdentityPush handles POST /api/gamestate/identity.
func (s *Server) handleIdentityPush(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Identity models.PlayerIdentity `json:"identity"`
		Leader   bool                  `json:"leader"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	s.app.GameState.SetIdentity(req.Identity, req.Leader)
	WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// handleEncounterPush handles POST /api/gamestate/encounter. Zero clears the
// current encounter.
func (s *Server) handleEncounterPush(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		EncounterID int `json:"encounter_id"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	s.app.GameState.SetEncounter(req.EncounterID)
	s.app.ThresholdService.SetCurrentEncounter(req.EncounterID)
	WriteJSON(w, http.StatusOK, map[string]interface{}{"encounter_id": req.EncounterID})
}

// handleTargetPush handles POST /api/gamestate/target. An empty body field
// set clears the target.
func (s *Server) handleTargetPush(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Target *models.PlayerIdentity `json:"target"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	s.app.GameState.SetTarget(req.Target)
	WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// handleRoster handles GET /api/roster: the latest tracked snapshot.
func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"members": s.app.RosterService.Current(),
	})
}

// handleRemovals handles GET /api/removals (peek) and DELETE /api/removals
// (drain). The plugin drains the queue and performs the kicks.
func (s *Server) handleRemovals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"directives": s.app.Removals.Pending(),
		})
	case http.MethodDelete:
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"directives": s.app.Removals.Drain(),
		})
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}
