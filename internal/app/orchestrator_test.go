package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bobmcallan/partygate/internal/clients/fflogs"
	"github.com/bobmcallan/partygate/internal/common"
	"github.com/bobmcallan/partygate/internal/models"
)

// flakyLogsClient fails RefreshToken with a scripted error sequence, then
// succeeds.
type flakyLogsClient struct {
	errs     []error
	attempts int
	valid    bool
}

func (f *flakyLogsClient) RefreshToken(ctx context.Context) error {
	f.attempts++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return err
	}
	f.valid = true
	return nil
}

func (f *flakyLogsClient) FetchEncounterResult(ctx context.Context, first, last, world string, encounterID, difficultyID int, metric string) (*models.ParseResult, error) {
	return &models.ParseResult{}, nil
}

func (f *flakyLogsClient) FetchDashboardData(ctx context.Context, c *models.Character) (json.RawMessage, error) {
	return nil, nil
}
func (f *flakyLogsClient) Invalidate(c *models.Character) {}
func (f *flakyLogsClient) TokenValid() bool               { return f.valid }
func (f *flakyLogsClient) RateLimit() models.RateLimitState {
	return models.RateLimitState{}
}
func (f *flakyLogsClient) ClearCache() {}

func TestAcquireToken_RetriesTransientFailure(t *testing.T) {
	client := &flakyLogsClient{errs: []error{
		&fflogs.TransportError{Message: "token exchange request failed"},
	}}
	a := &App{Logger: common.NewSilentLogger(), LogsClient: client}

	a.acquireToken(context.Background())

	if client.attempts != 2 {
		t.Fatalf("expected a transient failure to be retried, got %d attempts", client.attempts)
	}
	if !client.valid {
		t.Error("expected a valid token after the retry succeeded")
	}
}

func TestAcquireToken_DoesNotRetryCredentialRejection(t *testing.T) {
	client := &flakyLogsClient{errs: []error{
		&fflogs.AuthError{StatusCode: 400, Message: "invalid_client"},
	}}
	a := &App{Logger: common.NewSilentLogger(), LogsClient: client}

	a.acquireToken(context.Background())

	if client.attempts != 1 {
		t.Fatalf("expected credential rejection not retried, got %d attempts", client.attempts)
	}
	if client.valid {
		t.Error("expected no token after credential rejection")
	}
}

func TestAcquireToken_DoesNotRetryMissingCredentials(t *testing.T) {
	client := &flakyLogsClient{errs: []error{fflogs.ErrMissingCredentials}}
	a := &App{Logger: common.NewSilentLogger(), LogsClient: client}

	a.acquireToken(context.Background())

	if client.attempts != 1 {
		t.Fatalf("expected missing credentials not retried, got %d attempts", client.attempts)
	}
}

func TestAcquireToken_SkipsWhenTokenAlreadyValid(t *testing.T) {
	client := &flakyLogsClient{valid: true}
	a := &App{Logger: common.NewSilentLogger(), LogsClient: client}

	a.acquireToken(context.Background())

	if client.attempts != 0 {
		t.Errorf("expected no exchange with a valid token held, got %d attempts", client.attempts)
	}
}
