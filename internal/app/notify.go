package app

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/partygate/internal/common"
	"github.com/bobmcallan/partygate/internal/interfaces"
	"github.com/bobmcallan/partygate/internal/models"
)

// LogNotifier emits failure and cycle notifications to the structured log and
// keeps the most recent cycle reports for the dashboard.
type LogNotifier struct {
	logger *common.Logger

	mu      sync.Mutex
	history []*models.CycleReport
	keep    int
}

func NewLogNotifier(logger *common.Logger) *LogNotifier {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &LogNotifier{logger: logger, keep: 20}
}

func (n *LogNotifier) NotifyFailure(member models.RosterMember, result models.EncounterResult) {
	evt := n.logger.Warn().
		Str("member", member.DisplayName()).
		Str("encounter", result.Name).
		Int("minimum_kills", result.MinimumKills)
	if result.FetchFailed {
		evt = evt.Str("reason", "no data")
	} else if result.Result != nil && result.Result.KillCount != nil {
		evt = evt.Int("kills", *result.Result.KillCount)
	}
	evt.Msg("Threshold check failed")
}

func (n *LogNotifier) NotifyCycle(report *models.CycleReport) {
	n.mu.Lock()
	n.history = append(n.history, report)
	if len(n.history) > n.keep {
		n.history = n.history[len(n.history)-n.keep:]
	}
	n.mu.Unlock()
}

// History returns the retained cycle reports, newest last.
func (n *LogNotifier) History() []*models.CycleReport {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*models.CycleReport, len(n.history))
	copy(out, n.history)
	return out
}

// RemovalDirective is a pending instruction for the game-side plugin, which
// performs the actual kick. Issuing a directive is not removal.
type RemovalDirective struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IssuedAt  time.Time `json:"issued_at"`
}

// DirectiveQueue implements RemovalExecutor by queueing directives for the
// plugin to drain.
type DirectiveQueue struct {
	logger *common.Logger

	mu      sync.Mutex
	pending []RemovalDirective
}

func NewDirectiveQueue(logger *common.Logger) *DirectiveQueue {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &DirectiveQueue{logger: logger}
}

func (q *DirectiveQueue) RemoveFromParty(ctx context.Context, firstName, lastName string) error {
	q.mu.Lock()
	q.pending = append(q.pending, RemovalDirective{
		FirstName: firstName,
		LastName:  lastName,
		IssuedAt:  time.Now(),
	})
	q.mu.Unlock()

	q.logger.Info().Str("member", firstName+" "+lastName).Msg("Removal directive queued")
	return nil
}

// Drain returns and clears the pending directives.
func (q *DirectiveQueue) Drain() []RemovalDirective {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Pending returns the queued directives without clearing them.
func (q *DirectiveQueue) Pending() []RemovalDirective {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]RemovalDirective, len(q.pending))
	copy(out, q.pending)
	return out
}

var (
	_ interfaces.Notifier        = (*LogNotifier)(nil)
	_ interfaces.RemovalExecutor = (*DirectiveQueue)(nil)
)
