package threshold

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/partygate/internal/models"
)

// ErrAutoRemoveConfirmation is returned when a mutation would enable the
// destructive auto-remove flag without the explicit confirmation step.
var ErrAutoRemoveConfirmation = errors.New("enabling auto-remove requires explicit confirmation")

// ErrThresholdNotFound is returned when no threshold matches the encounter id.
var ErrThresholdNotFound = errors.New("threshold not found")

// ErrThresholdExists is returned when adding a duplicate encounter id.
var ErrThresholdExists = errors.New("threshold already configured for encounter")

// Settings returns a copy of the current threshold settings.
func (s *Service) Settings() models.ThresholdSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.settings
	out.Thresholds = make([]models.EncounterThreshold, len(s.settings.Thresholds))
	copy(out.Thresholds, s.settings.Thresholds)
	return out
}

// UpdateSettings replaces the top-level flags, keeping the threshold list.
func (s *Service) UpdateSettings(in models.ThresholdSettings) error {
	s.mu.Lock()
	s.settings.EnableChecking = in.EnableChecking
	s.settings.CheckOnRosterJoin = in.CheckOnRosterJoin
	s.settings.CheckOnlyIfLeader = in.CheckOnlyIfLeader
	s.settings.CheckOnlyMatchingEncounter = in.CheckOnlyMatchingEncounter
	s.mu.Unlock()

	return s.save()
}

// SetCurrentEncounter records the transient live-encounter id. It is never
// persisted.
func (s *Service) SetCurrentEncounter(encounterID int) {
	s.mu.Lock()
	s.settings.CurrentEncounterID = encounterID
	s.mu.Unlock()
}

// Thresholds returns the configured thresholds in insertion order.
func (s *Service) Thresholds() []models.EncounterThreshold {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.EncounterThreshold, len(s.settings.Thresholds))
	copy(out, s.settings.Thresholds)
	return out
}

// AddThreshold appends a threshold entry. The destructive auto-remove flag is
// never set on add; enable it afterwards via UpdateThreshold with the
// confirmation flag.
func (s *Service) AddThreshold(t models.EncounterThreshold) error {
	t.AutoRemove = false

	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	for _, existing := range s.settings.Thresholds {
		if existing.EncounterID == t.EncounterID {
			s.mu.Unlock()
			return fmt.Errorf("%w: %d", ErrThresholdExists, t.EncounterID)
		}
	}
	s.settings.Thresholds = append(s.settings.Thresholds, t)
	s.mu.Unlock()

	s.logger.Info().Int("encounter", t.EncounterID).Int("minimum_kills", t.MinimumKills).Msg("Threshold added")
	return s.save()
}

// RemoveThreshold deletes the entry with the given encounter id, preserving
// the order of the remaining entries.
func (s *Service) RemoveThreshold(encounterID int) error {
	s.mu.Lock()
	idx := -1
	for i, t := range s.settings.Thresholds {
		if t.EncounterID == encounterID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrThresholdNotFound, encounterID)
	}
	s.settings.Thresholds = append(s.settings.Thresholds[:idx], s.settings.Thresholds[idx+1:]...)
	s.mu.Unlock()

	s.logger.Info().Int("encounter", encounterID).Msg("Threshold removed")
	return s.save()
}

// UpdateThreshold mutates an existing entry in place. Flipping AutoRemove from
// false to true is a two-step commit: the mutation is rejected unless
// confirmAutoRemove is set.
func (s *Service) UpdateThreshold(encounterID int, t models.EncounterThreshold, confirmAutoRemove bool) error {
	t.EncounterID = encounterID
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	idx := -1
	for i, existing := range s.settings.Thresholds {
		if existing.EncounterID == encounterID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrThresholdNotFound, encounterID)
	}

	if t.AutoRemove && !s.settings.Thresholds[idx].AutoRemove && !confirmAutoRemove {
		s.mu.Unlock()
		return ErrAutoRemoveConfirmation
	}

	s.settings.Thresholds[idx] = t
	s.mu.Unlock()

	s.logger.Info().Int("encounter", encounterID).Msg("Threshold updated")
	return s.save()
}

// save persists the current settings. Save-on-change; the transient
// current-encounter id is stripped by the store's serialization.
func (s *Service) save() error {
	if s.store == nil {
		return nil
	}
	settings := s.Settings()
	if err := s.store.SaveSettings(context.Background(), &settings); err != nil {
		s.logger.Error().Err(err).Msg("Threshold settings save failed")
		return fmt.Errorf("failed to save threshold settings: %w", err)
	}
	return nil
}
