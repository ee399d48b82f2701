package threshold

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bobmcallan/partygate/internal/models"
)

type fakeSettingsStore struct {
	mu     sync.Mutex
	loaded *models.ThresholdSettings
	saved  []*models.ThresholdSettings
}

func (f *fakeSettingsStore) LoadSettings(ctx context.Context) (*models.ThresholdSettings, error) {
	return f.loaded, nil
}

func (f *fakeSettingsStore) SaveSettings(ctx context.Context, s *models.ThresholdSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeSettingsStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func newSettingsService(store *fakeSettingsStore) *Service {
	client := &fakeLogsClient{valid: true}
	return NewService(client, &fakeGameState{}, &fakeRoster{}, nil, nil, store, models.ThresholdSettings{EnableChecking: true}, nil)
}

func TestNewService_LoadsStoredSettings(t *testing.T) {
	store := &fakeSettingsStore{loaded: &models.ThresholdSettings{
		EnableChecking: true,
		Thresholds: []models.EncounterThreshold{
			{EncounterID: 87, Name: "TOP", MinimumKills: 5, Enabled: true},
		},
	}}
	svc := newSettingsService(store)

	if got := svc.Thresholds(); len(got) != 1 || got[0].EncounterID != 87 {
		t.Errorf("expected stored thresholds loaded, got %+v", got)
	}
}

func TestAddThreshold_StripsAutoRemove(t *testing.T) {
	store := &fakeSettingsStore{}
	svc := newSettingsService(store)

	err := svc.AddThreshold(models.EncounterThreshold{
		EncounterID: 87, Name: "TOP", MinimumKills: 5, Enabled: true, AutoRemove: true,
	})
	if err != nil {
		t.Fatalf("AddThreshold failed: %v", err)
	}

	got := svc.Thresholds()
	if got[0].AutoRemove {
		t.Error("auto-remove must never be set on add")
	}
	if store.saveCount() != 1 {
		t.Errorf("expected settings persisted once, got %d saves", store.saveCount())
	}
}

func TestAddThreshold_RejectsDuplicate(t *testing.T) {
	svc := newSettingsService(&fakeSettingsStore{})

	th := models.EncounterThreshold{EncounterID: 87, Name: "TOP", MinimumKills: 5, Enabled: true}
	if err := svc.AddThreshold(th); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := svc.AddThreshold(th); !errors.Is(err, ErrThresholdExists) {
		t.Errorf("expected ErrThresholdExists, got %v", err)
	}
}

func TestAddThreshold_Validates(t *testing.T) {
	svc := newSettingsService(&fakeSettingsStore{})

	var cfgErr *models.ConfigError
	err := svc.AddThreshold(models.EncounterThreshold{EncounterID: 0, Name: "Bad", MinimumKills: 1})
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for zero encounter id, got %v", err)
	}

	err = svc.AddThreshold(models.EncounterThreshold{EncounterID: 87, Name: "Bad", MinimumKills: -1})
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for negative minimum kills, got %v", err)
	}
}

func TestRemoveThreshold_PreservesOrder(t *testing.T) {
	svc := newSettingsService(&fakeSettingsStore{})
	for _, id := range []int{87, 88, 89} {
		if err := svc.AddThreshold(models.EncounterThreshold{EncounterID: id, Name: "E", MinimumKills: 1, Enabled: true}); err != nil {
			t.Fatalf("add %d failed: %v", id, err)
		}
	}

	if err := svc.RemoveThreshold(88); err != nil {
		t.Fatalf("RemoveThreshold failed: %v", err)
	}

	got := svc.Thresholds()
	if len(got) != 2 || got[0].EncounterID != 87 || got[1].EncounterID != 89 {
		t.Errorf("expected [87 89] in order, got %+v", got)
	}
}

func TestRemoveThreshold_NotFound(t *testing.T) {
	svc := newSettingsService(&fakeSettingsStore{})
	if err := svc.RemoveThreshold(42); !errors.Is(err, ErrThresholdNotFound) {
		t.Errorf("expected ErrThresholdNotFound, got %v", err)
	}
}

func TestUpdateThreshold_AutoRemoveNeedsConfirmation(t *testing.T) {
	store := &fakeSettingsStore{}
	svc := newSettingsService(store)
	if err := svc.AddThreshold(models.EncounterThreshold{EncounterID: 87, Name: "TOP", MinimumKills: 5, Enabled: true}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	savesBefore := store.saveCount()

	updated := models.EncounterThreshold{Name: "TOP", MinimumKills: 5, Enabled: true, AutoRemove: true}

	// First step: the same mutation without confirmation is rejected and
	// nothing changes.
	if err := svc.UpdateThreshold(87, updated, false); !errors.Is(err, ErrAutoRemoveConfirmation) {
		t.Fatalf("expected ErrAutoRemoveConfirmation, got %v", err)
	}
	if svc.Thresholds()[0].AutoRemove {
		t.Error("rejected mutation must not be applied")
	}
	if store.saveCount() != savesBefore {
		t.Error("rejected mutation must not be persisted")
	}

	// Second step: confirmed.
	if err := svc.UpdateThreshold(87, updated, true); err != nil {
		t.Fatalf("confirmed update failed: %v", err)
	}
	if !svc.Thresholds()[0].AutoRemove {
		t.Error("confirmed mutation must enable auto-remove")
	}
}

func TestUpdateThreshold_NoConfirmationNeededWhenAlreadyOn(t *testing.T) {
	svc := newSettingsService(&fakeSettingsStore{})
	if err := svc.AddThreshold(models.EncounterThreshold{EncounterID: 87, Name: "TOP", MinimumKills: 5, Enabled: true}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.UpdateThreshold(87, models.EncounterThreshold{Name: "TOP", MinimumKills: 5, Enabled: true, AutoRemove: true}, true); err != nil {
		t.Fatalf("confirmed enable failed: %v", err)
	}

	// AutoRemove stays true; editing other fields needs no confirmation.
	if err := svc.UpdateThreshold(87, models.EncounterThreshold{Name: "TOP", MinimumKills: 8, Enabled: true, AutoRemove: true}, false); err != nil {
		t.Fatalf("update of already-enabled auto-remove failed: %v", err)
	}
	got := svc.Thresholds()[0]
	if got.MinimumKills != 8 || !got.AutoRemove {
		t.Errorf("expected minimum kills 8 with auto-remove retained, got %+v", got)
	}

	// Disabling auto-remove is never gated.
	if err := svc.UpdateThreshold(87, models.EncounterThreshold{Name: "TOP", MinimumKills: 8, Enabled: true}, false); err != nil {
		t.Fatalf("disabling auto-remove failed: %v", err)
	}
	if svc.Thresholds()[0].AutoRemove {
		t.Error("expected auto-remove disabled")
	}
}

func TestUpdateSettings_KeepsThresholdList(t *testing.T) {
	svc := newSettingsService(&fakeSettingsStore{})
	if err := svc.AddThreshold(models.EncounterThreshold{EncounterID: 87, Name: "TOP", MinimumKills: 5, Enabled: true}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := svc.UpdateSettings(models.ThresholdSettings{EnableChecking: false, CheckOnRosterJoin: true}); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	got := svc.Settings()
	if got.EnableChecking || !got.CheckOnRosterJoin {
		t.Errorf("expected flags replaced, got %+v", got)
	}
	if len(got.Thresholds) != 1 {
		t.Errorf("expected threshold list retained, got %d entries", len(got.Thresholds))
	}
}

func TestSettings_ReturnsCopy(t *testing.T) {
	svc := newSettingsService(&fakeSettingsStore{})
	if err := svc.AddThreshold(models.EncounterThreshold{EncounterID: 87, Name: "TOP", MinimumKills: 5, Enabled: true}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	got := svc.Settings()
	got.Thresholds[0].MinimumKills = 99

	if svc.Thresholds()[0].MinimumKills != 5 {
		t.Error("mutating the returned copy must not affect service state")
	}
}
