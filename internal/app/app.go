// Package app wires the partygate services together and runs the background
// check orchestrator.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/partygate/internal/clients/fflogs"
	"github.com/bobmcallan/partygate/internal/common"
	"github.com/bobmcallan/partygate/internal/interfaces"
	"github.com/bobmcallan/partygate/internal/services/roster"
	"github.com/bobmcallan/partygate/internal/services/threshold"
	"github.com/bobmcallan/partygate/internal/storage"
)

// App holds all initialized services and clients. It is the shared core used
// by cmd/partygate-server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	LogsClient       interfaces.LogsClient
	GameState        *PushGameState
	RosterService    interfaces.RosterService
	ThresholdService interfaces.ThresholdService
	SettingsStore    interfaces.SettingsStore
	Notifier         *LogNotifier
	Removals         *DirectiveQueue
	StartupTime      time.Time

	orchestratorCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, the logs API client, and all services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Load configuration - check provided path, PARTYGATE_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("PARTYGATE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "partygate.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/partygate.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	settingsStore, err := storage.NewSettingsStore(logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ffCfg := config.Clients.FFLogs
	if ffCfg.ClientID == "" || ffCfg.ClientSecret == "" {
		logger.Warn().Msg("Logs API credentials not configured - checks will report unauthorized until set")
	}

	logsClient := fflogs.NewClient(ffCfg.TokenURL, ffCfg.ClientID, ffCfg.ClientSecret,
		fflogs.WithAPIURL(ffCfg.APIURL),
		fflogs.WithLogger(logger),
		fflogs.WithRateLimit(ffCfg.RateLimit),
		fflogs.WithTimeout(ffCfg.GetTimeout()),
		fflogs.WithCacheEnabled(ffCfg.CacheEnabled),
		fflogs.WithZones(ffCfg.Zones),
	)

	gameState := NewPushGameState()
	rosterService := roster.NewTracker(gameState, logger)
	notifier := NewLogNotifier(logger)
	removals := NewDirectiveQueue(logger)

	thresholdService := threshold.NewService(
		logsClient, gameState, rosterService, notifier, removals,
		settingsStore, config.Thresholds.Settings, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		LogsClient:       logsClient,
		GameState:        gameState,
		RosterService:    rosterService,
		ThresholdService: thresholdService,
		SettingsStore:    settingsStore,
		Notifier:         notifier,
		Removals:         removals,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")
	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.orchestratorCancel != nil {
		a.orchestratorCancel()
		a.orchestratorCancel = nil
	}
}
