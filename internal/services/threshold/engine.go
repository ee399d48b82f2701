// Package threshold evaluates configured kill thresholds against party members
package threshold

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/partygate/internal/common"
	"github.com/bobmcallan/partygate/internal/interfaces"
	"github.com/bobmcallan/partygate/internal/models"
)

// Service implements ThresholdService. One check cycle moves through
// filtering, fetching, evaluating and reporting; the aggregate report is
// emitted exactly once, after every fetch for the cycle has resolved.
type Service struct {
	client    interfaces.LogsClient
	gameState interfaces.GameStateProvider
	roster    interfaces.RosterService
	notifier  interfaces.Notifier
	remover   interfaces.RemovalExecutor
	store     interfaces.SettingsStore
	logger    *common.Logger

	mu       sync.Mutex
	settings models.ThresholdSettings

	// cycleSeq orders cycles; lastReported is the highest sequence that has
	// produced a report. An automatic cycle whose results arrive after a newer
	// cycle has reported is discarded at the reporting boundary.
	cycleMu      sync.Mutex
	cycleSeq     uint64
	lastReported uint64
}

// NewService creates a threshold service with the given collaborators.
// Settings are loaded from the store when present, falling back to defaults.
func NewService(
	client interfaces.LogsClient,
	gameState interfaces.GameStateProvider,
	rosterSvc interfaces.RosterService,
	notifier interfaces.Notifier,
	remover interfaces.RemovalExecutor,
	store interfaces.SettingsStore,
	defaults models.ThresholdSettings,
	logger *common.Logger,
) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	s := &Service{
		client:    client,
		gameState: gameState,
		roster:    rosterSvc,
		notifier:  notifier,
		remover:   remover,
		store:     store,
		logger:    logger,
		settings:  defaults,
	}

	if store != nil {
		if loaded, err := store.LoadSettings(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("Threshold settings load failed, using defaults")
		} else if loaded != nil {
			s.settings = *loaded
		}
	}

	return s
}

// CheckParty refreshes the roster and evaluates every member against the
// applicable thresholds.
func (s *Service) CheckParty(ctx context.Context, trigger models.CycleTrigger) (*models.CycleReport, error) {
	members, err := s.roster.Poll(ctx)
	if err != nil {
		return nil, fmt.Errorf("roster poll failed: %w", err)
	}
	return s.runCycle(ctx, trigger, members)
}

// CheckPlayer evaluates a single named player without touching the roster.
func (s *Service) CheckPlayer(ctx context.Context, firstName, lastName, world string) (*models.CycleReport, error) {
	member := models.RosterMember{FirstName: firstName, LastName: lastName, World: world}
	return s.runCycle(ctx, models.TriggerManual, []models.RosterMember{member})
}

// OnRosterMemberJoined runs a join-triggered check for one member when the
// check-on-join policy is enabled.
func (s *Service) OnRosterMemberJoined(ctx context.Context, member models.RosterMember) (*models.CycleReport, error) {
	settings := s.Settings()
	if !settings.EnableChecking || !settings.CheckOnRosterJoin {
		return nil, nil
	}
	if settings.CheckOnlyIfLeader {
		leader, err := s.gameState.IsPartyLeader(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Leader check failed, skipping join check")
			return nil, nil
		}
		if !leader {
			return nil, nil
		}
	}
	return s.runCycle(ctx, models.TriggerRosterJoin, []models.RosterMember{member})
}

func (s *Service) nextCycle() uint64 {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	s.cycleSeq++
	return s.cycleSeq
}

// commitCycle marks the cycle reported. It returns false when a newer cycle
// already reported and this one is automatic: its results are discarded.
func (s *Service) commitCycle(seq uint64, trigger models.CycleTrigger) bool {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	if trigger != models.TriggerManual && s.lastReported > seq {
		return false
	}
	if seq > s.lastReported {
		s.lastReported = seq
	}
	return true
}

// runCycle executes one full check cycle over the given member set.
func (s *Service) runCycle(ctx context.Context, trigger models.CycleTrigger, members []models.RosterMember) (*models.CycleReport, error) {
	seq := s.nextCycle()
	report := &models.CycleReport{
		CycleID:   uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now(),
	}

	applicable := s.applicableThresholds(ctx)

	switch {
	case len(applicable) == 0:
		report.Status = models.CycleStatusNotConfigured
		report.Message = "no kill thresholds configured"
	case len(members) == 0:
		report.Status = models.CycleStatusNoParty
		report.Message = "no party members to check"
	case !s.client.TokenValid():
		// One aggregate result, zero HTTP calls: fetching is disabled until
		// token re-acquisition succeeds.
		report.Status = models.CycleStatusUnauthorized
		report.Message = "logs API token invalid; configure credentials and refresh"
	default:
		report.Status = models.CycleStatusEvaluated
		report.Verdicts = s.fetchAndEvaluate(ctx, members, applicable)
		for _, v := range report.Verdicts {
			if v.Skipped {
				continue
			}
			if v.PassesAll {
				report.Passed++
			} else {
				report.Failed++
			}
		}
	}

	report.CompletedAt = time.Now()

	if !s.commitCycle(seq, trigger) {
		s.logger.Debug().Str("cycle", report.CycleID).Msg("Check cycle superseded, results discarded")
		report.Status = models.CycleStatusSuperseded
		report.Verdicts = nil
		return report, nil
	}

	s.report(ctx, report)
	return report, nil
}

// applicableThresholds resolves the filtering state: enabled thresholds,
// narrowed to the current encounter when that policy is set. An empty filtered
// set falls back to the full enabled list so the engine never silently
// evaluates against nothing.
func (s *Service) applicableThresholds(ctx context.Context) []models.EncounterThreshold {
	settings := s.Settings()
	enabled := settings.EnabledThresholds()
	if len(enabled) == 0 {
		return nil
	}

	if !settings.CheckOnlyMatchingEncounter {
		return enabled
	}

	encounterID := settings.CurrentEncounterID
	if encounterID == 0 && s.gameState != nil {
		id, err := s.gameState.CurrentEncounterID(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Current encounter lookup failed, using full threshold list")
			return enabled
		}
		encounterID = id
	}
	if encounterID == 0 {
		return enabled
	}

	matching := make([]models.EncounterThreshold, 0, len(enabled))
	for _, t := range enabled {
		if t.EncounterID == encounterID {
			matching = append(matching, t)
		}
	}
	if len(matching) == 0 {
		return enabled
	}
	return matching
}

// pairResult carries one (member, threshold) fetch outcome back to the cycle.
type pairResult struct {
	memberIdx    int
	thresholdIdx int
	result       *models.ParseResult
	err          error
}

// fetchAndEvaluate issues every (member x threshold) fetch concurrently, waits
// for all of them, and derives per-member verdicts. A failed pair is recorded
// as "no data", which fails that threshold: absence of evidence of sufficient
// kills is not evidence of sufficiency.
func (s *Service) fetchAndEvaluate(ctx context.Context, members []models.RosterMember, thresholds []models.EncounterThreshold) []models.Verdict {
	verdicts := make([]models.Verdict, len(members))
	results := make([][]pairResult, len(members))

	var wg sync.WaitGroup
	for mi, member := range members {
		verdicts[mi] = models.Verdict{Member: member}

		if !member.HasFullName() {
			verdicts[mi].Skipped = true
			verdicts[mi].SkipReason = "name does not decompose into first and last"
			s.logger.Warn().Str("member", member.DisplayName()).Msg("Skipping member without full name")
			continue
		}

		results[mi] = make([]pairResult, len(thresholds))
		for ti, th := range thresholds {
			wg.Add(1)
			go func(mi, ti int, member models.RosterMember, th models.EncounterThreshold) {
				defer wg.Done()
				parsed, err := s.client.FetchEncounterResult(ctx,
					member.FirstName, member.LastName, member.World,
					th.EncounterID, th.DifficultyID, "")
				results[mi][ti] = pairResult{memberIdx: mi, thresholdIdx: ti, result: parsed, err: err}
			}(mi, ti, member, th)
		}
	}
	wg.Wait()

	for mi := range members {
		if verdicts[mi].Skipped {
			continue
		}
		verdicts[mi].Encounters = make([]models.EncounterResult, len(thresholds))
		verdicts[mi].PassesAll = true
		for ti, th := range thresholds {
			er := evaluatePair(th, results[mi][ti])
			verdicts[mi].Encounters[ti] = er
			if !er.Passed {
				verdicts[mi].PassesAll = false
			}
		}
	}

	return verdicts
}

// evaluatePair derives the pass/fail outcome for one (member, threshold) pair.
func evaluatePair(th models.EncounterThreshold, pr pairResult) models.EncounterResult {
	er := models.EncounterResult{
		EncounterID:  th.EncounterID,
		Name:         th.Name,
		MinimumKills: th.MinimumKills,
		Result:       pr.result,
	}

	if pr.err != nil {
		// Fail closed: an erroring fetch is "no data", distinct from a genuine
		// zero-kill result.
		er.FetchFailed = true
		er.FetchError = pr.err.Error()
		er.Passed = false
		return er
	}

	kills := 0
	if pr.result != nil && pr.result.KillCount != nil {
		kills = *pr.result.KillCount
	}
	er.Passed = kills >= th.MinimumKills
	return er
}

// report performs the cycle's side effects: per-threshold failure
// notifications, removal directives, and the single aggregate notification.
func (s *Service) report(ctx context.Context, report *models.CycleReport) {
	thresholdsByID := make(map[int]models.EncounterThreshold)
	for _, t := range s.Thresholds() {
		thresholdsByID[t.EncounterID] = t
	}

	for _, v := range report.Verdicts {
		if v.Skipped || v.PassesAll {
			continue
		}
		for _, er := range v.Encounters {
			if er.Passed {
				continue
			}
			th, ok := thresholdsByID[er.EncounterID]
			if !ok {
				continue
			}
			if th.Notify && s.notifier != nil {
				s.notifier.NotifyFailure(v.Member, er)
			}
			if th.AutoRemove && s.remover != nil {
				// Removal execution is external; never assume it succeeded.
				if err := s.remover.RemoveFromParty(ctx, v.Member.FirstName, v.Member.LastName); err != nil {
					s.logger.Warn().Err(err).Str("member", v.Member.DisplayName()).Msg("Party removal directive failed")
				} else {
					s.logger.Info().Str("member", v.Member.DisplayName()).Int("encounter", er.EncounterID).Msg("Party removal directive issued")
				}
			}
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyCycle(report)
	}

	s.logger.Info().
		Str("cycle", report.CycleID).
		Str("trigger", string(report.Trigger)).
		Str("status", string(report.Status)).
		Int("passed", report.Passed).
		Int("failed", report.Failed).
		Msg("Check cycle complete")
}

// Ensure Service implements ThresholdService
var _ interfaces.ThresholdService = (*Service)(nil)
