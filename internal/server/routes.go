package server

import (
	"net/http"
	"time"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/diagnostics", s.handleDiagnostics)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Threshold settings
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/api/thresholds/", s.routeThreshold)
	mux.HandleFunc("/api/thresholds", s.handleThresholds)

	// Checks
	mux.HandleFunc("/api/check/party", s.handleCheckParty)
	mux.HandleFunc("/api/check/player", s.handleCheckPlayer)
	mux.HandleFunc("/api/command", s.handleCommand)
	mux.HandleFunc("/api/reports", s.handleReports)

	// Game-state push (game-side plugin)
	mux.HandleFunc("/api/gamestate/roster", s.handleRosterPush)
	mux.HandleFunc("/api/gamestate/identity", s.handleIdentityPush)
	mux.HandleFunc("/api/gamestate/encounter", s.handleEncounterPush)
	mux.HandleFunc("/api/gamestate/target", s.handleTargetPush)
	mux.HandleFunc("/api/roster", s.handleRoster)
	mux.HandleFunc("/api/removals", s.handleRemovals)

	// Logs API administration
	mux.HandleFunc("/api/token/refresh", s.handleTokenRefresh)
	mux.HandleFunc("/api/cache/clear", s.handleCacheClear)
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/dashboard/invalidate", s.handleDashboardInvalidate)
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
