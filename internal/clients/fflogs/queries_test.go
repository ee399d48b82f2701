package fflogs

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/bobmcallan/partygate/internal/models"
)

func TestEncounterRankingsQuery_FixedShape(t *testing.T) {
	got := encounterRankingsQuery("Foo", "Bar", "Gilgamesh", "NA", 87, 101, "rdps")
	want := `query{characterData{character(name:"Foo Bar",serverSlug:"gilgamesh",serverRegion:"NA"){hidden,encounterRankings(encounterID:87,difficulty:101,metric:rdps)}}}`
	if got != want {
		t.Errorf("query mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func TestEncounterRankingsQuery_OmitsZeroDifficulty(t *testing.T) {
	got := encounterRankingsQuery("Foo", "Bar", "Cerberus", "EU", 93, 0, "hps")
	if strings.Contains(got, "difficulty") {
		t.Errorf("expected no difficulty argument, got %s", got)
	}
	if !strings.Contains(got, "metric:hps") {
		t.Errorf("expected metric argument, got %s", got)
	}
}

// Identical parameter tuples must produce byte-identical documents: the cache
// fingerprint is the document itself.
func TestEncounterRankingsQuery_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	worlds := []string{"Gilgamesh", "Cerberus", "Tonberry", "Bismarck"}
	regions := []string{"NA", "EU", "JP", "OC"}
	metrics := []string{"rdps", "adps", "hps", ""}

	for i := 0; i < 200; i++ {
		w := rng.Intn(len(worlds))
		first := fmt.Sprintf("First%d", rng.Intn(50))
		last := fmt.Sprintf("Last%d", rng.Intn(50))
		enc := rng.Intn(100) + 1
		diff := rng.Intn(3) * 100
		metric := metrics[rng.Intn(len(metrics))]

		a := encounterRankingsQuery(first, last, worlds[w], regions[w], enc, diff, metric)
		b := encounterRankingsQuery(first, last, worlds[w], regions[w], enc, diff, metric)
		if a != b {
			t.Fatalf("non-deterministic query for tuple %d:\n%s\n%s", i, a, b)
		}
	}
}

func TestDashboardQuery_Deterministic(t *testing.T) {
	zones := []models.ZoneQuery{{ZoneID: 68, DifficultyID: 101}, {ZoneID: 65, DifficultyID: 100}}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		char := &models.Character{
			FirstName:   fmt.Sprintf("First%d", rng.Intn(20)),
			LastName:    fmt.Sprintf("Last%d", rng.Intn(20)),
			World:       "Gilgamesh",
			Metric:      "rdps",
			PartitionID: rng.Intn(5),
			JobName:     []string{"Any", "Sage", "Reaper", ""}[rng.Intn(4)],
			Timeframe:   []string{"Historical", ""}[rng.Intn(2)],
		}
		a := dashboardQuery(char, "NA", zones)
		b := dashboardQuery(char, "NA", zones)
		if a != b {
			t.Fatalf("non-deterministic dashboard query:\n%s\n%s", a, b)
		}
	}
}

func TestDashboardQuery_Filters(t *testing.T) {
	zones := []models.ZoneQuery{{ZoneID: 68, DifficultyID: 101}}

	char := &models.Character{
		FirstName: "Foo", LastName: "Bar", World: "Gilgamesh",
		Metric: "rdps", PartitionID: 3, JobName: "Sage", Timeframe: "Historical",
	}
	got := dashboardQuery(char, "NA", zones)

	for _, want := range []string{
		"z68d101:zoneRankings(zoneID:68,difficulty:101",
		"metric:rdps",
		"partition:3",
		`specName:"Sage"`,
		"timeframe:Historical",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected query to contain %q, got %s", want, got)
		}
	}

	// Job filter "Any" and partition 0 mean "no filter" and must be omitted.
	char.JobName = "Any"
	char.PartitionID = 0
	got = dashboardQuery(char, "NA", zones)
	if strings.Contains(got, "specName") {
		t.Errorf("expected no specName for job Any, got %s", got)
	}
	if strings.Contains(got, "partition:") {
		t.Errorf("expected no partition for partition 0, got %s", got)
	}
}

func TestDashboardQuery_OneSubQueryPerZone(t *testing.T) {
	zones := []models.ZoneQuery{
		{ZoneID: 68, DifficultyID: 101},
		{ZoneID: 65, DifficultyID: 100},
		{ZoneID: 62, DifficultyID: 101},
	}
	char := &models.Character{FirstName: "Foo", LastName: "Bar", World: "Gilgamesh"}
	got := dashboardQuery(char, "NA", zones)

	if n := strings.Count(got, "zoneRankings("); n != 3 {
		t.Errorf("expected 3 zoneRankings sub-queries, got %d in %s", n, got)
	}
}
