package interfaces

import (
	"context"

	"github.com/bobmcallan/partygate/internal/models"
)

// SettingsStore persists threshold settings across process restarts.
// Implementations save on change.
type SettingsStore interface {
	LoadSettings(ctx context.Context) (*models.ThresholdSettings, error)
	SaveSettings(ctx context.Context, s *models.ThresholdSettings) error
}
