package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/partygate/internal/app"
	"github.com/bobmcallan/partygate/internal/models"
)

// TestGatekeeperWorkflow drives the full flow over HTTP: the plugin pushes a
// roster, the operator tightens a threshold with auto-remove, a party check
// fails a member, and the plugin drains the resulting removal directive.
func TestGatekeeperWorkflow(t *testing.T) {
	logs := &fakeLogs{valid: true, kills: map[string]int{
		"foo bar": 12,
		"baz qux": 2,
	}}
	s, _ := newTestServer(t, logs)

	// Plugin pushes the party.
	rec := doRequest(t, s, http.MethodPost, "/api/gamestate/roster", map[string]interface{}{
		"members": []models.RosterMember{
			{FirstName: "Foo", LastName: "Bar", World: "Gilgamesh"},
			{FirstName: "Baz", LastName: "Qux", World: "Odin"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Operator enables auto-remove on the configured threshold: rejected
	// without confirmation, accepted with it.
	body := models.EncounterThreshold{
		Name: "The Omega Protocol", MinimumKills: 5, Enabled: true, Notify: true, AutoRemove: true,
	}
	rec = doRequest(t, s, http.MethodPut, "/api/thresholds/87", body)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, s, http.MethodPut, "/api/thresholds/87?confirm=true", body)
	require.Equal(t, http.StatusOK, rec.Code)

	// Manual party check: Foo passes (12 kills), Baz fails (2 kills).
	rec = doRequest(t, s, http.MethodPost, "/api/check/party", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.CycleReport
	decodeBody(t, rec, &report)
	assert.Equal(t, models.CycleStatusEvaluated, report.Status)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Verdicts, 2)
	assert.True(t, report.Verdicts[0].PassesAll)
	assert.False(t, report.Verdicts[1].PassesAll)

	// The failing member produced a removal directive for the plugin.
	rec = doRequest(t, s, http.MethodDelete, "/api/removals", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var removals struct {
		Directives []app.RemovalDirective `json:"directives"`
	}
	decodeBody(t, rec, &removals)
	require.Len(t, removals.Directives, 1)
	assert.Equal(t, "Baz", removals.Directives[0].FirstName)
	assert.Equal(t, "Qux", removals.Directives[0].LastName)

	// The cycle landed in the report history.
	rec = doRequest(t, s, http.MethodGet, "/api/reports", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		Reports []models.CycleReport `json:"reports"`
	}
	decodeBody(t, rec, &history)
	require.NotEmpty(t, history.Reports)
	assert.Equal(t, report.CycleID, history.Reports[len(history.Reports)-1].CycleID)
}
