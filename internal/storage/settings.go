// Package storage provides file-based JSON persistence with versioned backups.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobmcallan/partygate/internal/common"
	"github.com/bobmcallan/partygate/internal/interfaces"
	"github.com/bobmcallan/partygate/internal/models"
)

const settingsFile = "thresholds.json"

// SettingsStore persists threshold settings as a JSON file. Writes are atomic
// (temp file in the same directory, then rename) and previous versions are
// rotated before overwriting.
type SettingsStore struct {
	basePath string
	versions int
	logger   *common.Logger
}

// NewSettingsStore creates a SettingsStore and ensures the base directory
// exists.
func NewSettingsStore(logger *common.Logger, config *common.StorageConfig) (*SettingsStore, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	versions := config.Versions
	if versions < 0 {
		versions = 0
	}

	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", config.Path, err)
	}

	logger.Debug().Str("path", config.Path).Int("versions", versions).Msg("Settings store opened")
	return &SettingsStore{
		basePath: config.Path,
		versions: versions,
		logger:   logger,
	}, nil
}

// LoadSettings reads the persisted threshold settings. A missing file is not
// an error: it returns (nil, nil) so the caller can fall back to defaults.
func (s *SettingsStore) LoadSettings(ctx context.Context) (*models.ThresholdSettings, error) {
	path := filepath.Join(s.basePath, settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("'%s' is empty", path)
	}

	var settings models.ThresholdSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	// The live-encounter id is transient state, never honored from disk.
	settings.CurrentEncounterID = 0
	return &settings, nil
}

// SaveSettings writes the threshold settings atomically, rotating previous
// versions first.
func (s *SettingsStore) SaveSettings(ctx context.Context, settings *models.ThresholdSettings) error {
	target := filepath.Join(s.basePath, settingsFile)

	persisted := *settings
	persisted.CurrentEncounterID = 0

	jsonData, err := json.MarshalIndent(&persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')

	if s.versions > 0 {
		s.rotateVersions(target)
	}

	tmpFile, err := os.CreateTemp(s.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// rotateVersions shifts existing versions up and moves current to v1.
// v{N} -> deleted, v{N-1} -> v{N}, ..., v1 -> v2, current -> v1
func (s *SettingsStore) rotateVersions(target string) {
	oldest := fmt.Sprintf("%s.v%d", target, s.versions)
	os.Remove(oldest)

	for i := s.versions; i > 1; i-- {
		src := fmt.Sprintf("%s.v%d", target, i-1)
		dst := fmt.Sprintf("%s.v%d", target, i)
		os.Rename(src, dst) // file may not exist yet
	}

	if _, err := os.Stat(target); err == nil {
		os.Rename(target, fmt.Sprintf("%s.v1", target))
	}
}

// Ensure SettingsStore implements interfaces.SettingsStore
var _ interfaces.SettingsStore = (*SettingsStore)(nil)
