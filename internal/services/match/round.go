package match

import (
	"log/slog"

	"github.com/mcoot/rpsduel/internal/model"
)

// handle delivers a timer event to a session. Events from an earlier round
// or for a finished session are dropped.
func (m *Manager) handle(s *session, round int, ev event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.round != round || s.phase == model.PhaseIdle {
		return
	}
	m.step(s, ev)
}

// step is the session transition function
func (m *Manager) step(s *session, ev event) {
	switch s.phase {
	case model.PhaseCountdown:
		if ev == eventTick {
			m.tick(s)
		}
	case model.PhaseResultDisplay:
		if ev == eventDisplayElapsed {
			m.finishRound(s)
		}
	default:
		m.logger.Debug("event ignored",
			slog.String("match_id", string(s.id)),
			slog.String("phase", string(s.phase)),
			slog.String("event", ev.String()))
	}
}

// startRound clears actions and enters Countdown
func (m *Manager) startRound(s *session) {
	s.round++
	s.phase = model.PhaseCountdown
	s.actions = [2]model.Action{}
	s.remaining = m.config.countdownTicks()

	for i, p := range s.players {
		if s.kind == model.MatchKindBot {
			m.router.ToBotBattle(s.ctx, p, s.opponentOf(i))
		} else {
			m.router.ToBattle(s.ctx, p, s.opponentOf(i))
		}
		m.router.SetRemainingTime(s.ctx, p, s.remaining)
	}

	round := s.round
	s.ticker = m.scheduler.Every(m.config.TickInterval, func() {
		m.handle(s, round, eventTick)
	})
}

func (m *Manager) tick(s *session) {
	s.remaining--
	if s.remaining >= 0 {
		for _, p := range s.players {
			m.router.SetRemainingTime(s.ctx, p, s.remaining)
		}
		return
	}

	s.ticker.Stop()
	s.ticker = nil
	s.phase = model.PhaseResolving
	m.resolve(s)
}

// resolve fills in missing actions, decides the round and shows the results
func (m *Manager) resolve(s *session) {
	for i, p := range s.players {
		if s.actions[i].IsSet() {
			continue
		}
		s.actions[i] = model.ConcreteActions[m.random.IntBetween(0, len(model.ConcreteActions)-1)]
		m.metrics.FallbackAction()
		m.router.SetSelectedAction(s.ctx, p, s.actions[i])
		m.logger.Debug("assigned random action",
			slog.String("match_id", string(s.id)),
			slog.String("player_id", string(p.ID)),
			slog.String("action", string(s.actions[i])))
	}

	outcome, err := model.Resolve(s.actions[0], s.actions[1])
	if err != nil {
		m.logger.Warn("could not compare actions, treating round as a tie",
			slog.String("match_id", string(s.id)),
			slog.String("error", err.Error()))
		outcome = model.OutcomeTie
	}

	result := model.RoundResult{
		MatchID: s.id,
		Round:   s.round,
		Players: s.players,
		Actions: s.actions,
	}
	switch outcome {
	case model.OutcomeWon:
		winner := s.players[0].ID
		result.Winner = &winner
	case model.OutcomeLost:
		winner := s.players[1].ID
		result.Winner = &winner
	case model.OutcomeTie:
	}
	s.result = &result
	s.phase = model.PhaseResultDisplay
	m.metrics.RoundResolved(result.IsTie())

	m.logger.Info("round resolved",
		slog.String("match_id", string(s.id)),
		slog.Int("round", s.round),
		slog.String("action_a", string(s.actions[0])),
		slog.String("action_b", string(s.actions[1])),
		slog.String("outcome_a", string(outcome)))

	for i, p := range s.players {
		m.router.ToResults(s.ctx, p, s.opponentOf(i), result.OutcomeFor(p.ID))
	}

	// The round completes even when scores cannot be stored
	if err := m.scoring.ApplyRound(s.ctx, result); err != nil {
		m.logger.Warn("failed to apply round scores",
			slog.String("match_id", string(s.id)),
			slog.String("error", err.Error()))
	}

	round := s.round
	s.delay = m.scheduler.After(m.config.ResultDelay, func() {
		m.handle(s, round, eventDisplayElapsed)
	})
}

// finishRound runs once the results have been shown: a tie replays, anything else ends the match
func (m *Manager) finishRound(s *session) {
	s.delay = nil
	s.actions = [2]model.Action{}
	for _, p := range s.players {
		m.router.SetSelectedAction(s.ctx, p, model.ActionUnset)
	}

	if s.result.IsTie() {
		m.startRound(s)
		return
	}

	for _, p := range s.players {
		m.router.ToMainMenu(s.ctx, p)
	}
	m.end(s)
}

func (m *Manager) end(s *session) {
	s.stopTimers()
	s.phase = model.PhaseIdle
	for _, p := range s.players {
		if m.sessions[p.ID] == s {
			delete(m.sessions, p.ID)
		}
	}
	m.metrics.MatchEnded()
	m.logger.Info("match ended",
		slog.String("match_id", string(s.id)),
		slog.Int("rounds", s.round))
}
