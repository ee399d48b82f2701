package roster

import (
	"context"
	"errors"
	"testing"

	"github.com/bobmcallan/partygate/internal/models"
)

type fakeGameState struct {
	roster    []models.RosterMember
	rosterErr error
}

func (f *fakeGameState) CurrentPartyRoster(ctx context.Context) ([]models.RosterMember, error) {
	return f.roster, f.rosterErr
}

func (f *fakeGameState) LocalPlayerIdentity(ctx context.Context) (models.PlayerIdentity, error) {
	return models.PlayerIdentity{FirstName: "Local", LastName: "Player", World: "Gilgamesh"}, nil
}

func (f *fakeGameState) IsPartyLeader(ctx context.Context) (bool, error) {
	return true, nil
}

func (f *fakeGameState) CurrentEncounterID(ctx context.Context) (int, error) {
	return 0, nil
}

func member(first, last, world string) models.RosterMember {
	return models.RosterMember{FirstName: first, LastName: last, World: world}
}

func TestPoll_SwapsSnapshot(t *testing.T) {
	gs := &fakeGameState{roster: []models.RosterMember{
		member("Foo", "Bar", "Gilgamesh"),
		member("Baz", "Qux", "Cerberus"),
	}}
	tracker := NewTracker(gs, nil)

	got, err := tracker.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 members, got %d", len(got))
	}
	if got[0].FirstName != "Foo" || got[1].FirstName != "Baz" {
		t.Errorf("expected live ordering preserved, got %v", got)
	}

	cur := tracker.Current()
	if len(cur) != 2 {
		t.Errorf("expected Current to return snapshot, got %d members", len(cur))
	}
}

func TestPoll_DeduplicatesByIdentity(t *testing.T) {
	gs := &fakeGameState{roster: []models.RosterMember{
		member("Foo", "Bar", "Gilgamesh"),
		member("foo", "bar", "GILGAMESH"), // same identity, different case
	}}
	tracker := NewTracker(gs, nil)

	got, err := tracker.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected case-insensitive de-duplication, got %d members", len(got))
	}
}

func TestPoll_PropagatesProviderError(t *testing.T) {
	gs := &fakeGameState{rosterErr: errors.New("game not running")}
	tracker := NewTracker(gs, nil)

	if _, err := tracker.Poll(context.Background()); err == nil {
		t.Fatal("expected error from provider")
	}
}

func TestDiff_JoinsAndLeaves(t *testing.T) {
	prev := []models.RosterMember{
		member("Foo", "Bar", "Gilgamesh"),
		member("Old", "Hand", "Cerberus"),
	}
	cur := []models.RosterMember{
		member("Foo", "Bar", "Gilgamesh"),
		member("New", "Blood", "Tonberry"),
	}

	delta := Diff(prev, cur)

	if len(delta.Joined) != 1 || delta.Joined[0].FirstName != "New" {
		t.Errorf("expected New Blood joined, got %v", delta.Joined)
	}
	if len(delta.Left) != 1 || delta.Left[0].FirstName != "Old" {
		t.Errorf("expected Old Hand left, got %v", delta.Left)
	}
}

func TestDiff_CaseInsensitiveIdentity(t *testing.T) {
	prev := []models.RosterMember{member("Foo", "Bar", "Gilgamesh")}
	cur := []models.RosterMember{member("FOO", "BAR", "gilgamesh")}

	delta := Diff(prev, cur)
	if !delta.Empty() {
		t.Errorf("expected no delta for case-variant identity, got %+v", delta)
	}
}

func TestDiff_EmptySnapshots(t *testing.T) {
	if delta := Diff(nil, nil); !delta.Empty() {
		t.Errorf("expected empty delta for empty snapshots, got %+v", delta)
	}

	cur := []models.RosterMember{member("Foo", "Bar", "Gilgamesh")}
	delta := Diff(nil, cur)
	if len(delta.Joined) != 1 || len(delta.Left) != 0 {
		t.Errorf("expected everyone joined from empty previous, got %+v", delta)
	}
}

func TestDiff_DoesNotMutateInputs(t *testing.T) {
	prev := []models.RosterMember{member("Foo", "Bar", "Gilgamesh")}
	cur := []models.RosterMember{member("Baz", "Qux", "Cerberus")}

	Diff(prev, cur)

	if prev[0].FirstName != "Foo" || cur[0].FirstName != "Baz" {
		t.Error("Diff must not mutate its inputs")
	}
}
