package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/bobmcallan/partygate/internal/common"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": common.GetVersion(),
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig returns the running configuration with credentials masked.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment": cfg.Environment,
		"server": map[string]interface{}{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
		},
		"storage": map[string]interface{}{
			"path":     cfg.Storage.Path,
			"versions": cfg.Storage.Versions,
		},
		"fflogs": map[string]interface{}{
			"api_url":           cfg.Clients.FFLogs.APIURL,
			"rate_limit":        cfg.Clients.FFLogs.RateLimit,
			"cache_enabled":     cfg.Clients.FFLogs.CacheEnabled,
			"client_configured": cfg.Clients.FFLogs.ClientID != "" && cfg.Clients.FFLogs.ClientSecret != "",
		},
		"thresholds": map[string]interface{}{
			"poll_interval": cfg.Thresholds.GetPollInterval().String(),
		},
	})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	rl := s.app.LogsClient.RateLimit()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"uptime":         time.Since(s.app.StartupTime).Round(time.Second).String(),
		"goroutines":     runtime.NumGoroutine(),
		"heap_alloc_mb":  mem.HeapAlloc / 1024 / 1024,
		"token_valid":    s.app.LogsClient.TokenValid(),
		"limit_per_hour": rl.LimitPerHour,
		"fetch_attempts": rl.FetchAttempts,
		"roster_size":    len(s.app.RosterService.Current()),
	})
}
