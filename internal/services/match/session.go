package match

import (
	"context"
	"time"

	"github.com/mcoot/rpsduel/internal/dependencies/scheduler"
	"github.com/mcoot/rpsduel/internal/model"
)

// event drives a session from one phase to the next
type event int

const (
	eventTick event = iota
	eventDisplayElapsed
)

func (e event) String() string {
	switch e {
	case eventTick:
		return "tick"
	case eventDisplayElapsed:
		return "display_elapsed"
	}
	return "unknown"
}

// session is the state of one pair's match. Guarded by Manager.mu.
type session struct {
	id        model.MatchID
	kind      model.MatchKind
	players   [2]model.Player
	actions   [2]model.Action
	phase     model.MatchPhase
	round     int
	remaining int
	result    *model.RoundResult
	startedAt time.Time

	// ctx outlives the request that started the match
	ctx context.Context

	ticker scheduler.Timer
	delay  scheduler.Timer
}

func (s *session) indexOf(id model.PlayerID) int {
	for i, p := range s.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *session) opponentOf(i int) model.Player {
	return s.players[1-i]
}

func (s *session) stopTimers() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.delay != nil {
		s.delay.Stop()
		s.delay = nil
	}
}

func (s *session) view(forPlayer int) model.MatchView {
	v := model.MatchView{
		ID:             s.id,
		Kind:           s.kind,
		Phase:          s.phase,
		Round:          s.round,
		RemainingTime:  max(s.remaining, 0),
		Opponent:       s.opponentOf(forPlayer),
		SelectedAction: s.actions[forPlayer],
		StartedAt:      s.startedAt,
	}
	if s.result != nil {
		r := *s.result
		v.LastResult = &r
	}
	return v
}
