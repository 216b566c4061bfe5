package match

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/rpsduel/internal/dependencies/clock"
	"github.com/mcoot/rpsduel/internal/dependencies/random"
	"github.com/mcoot/rpsduel/internal/dependencies/scheduler"
	"github.com/mcoot/rpsduel/internal/metrics"
	"github.com/mcoot/rpsduel/internal/model"
	"github.com/mcoot/rpsduel/internal/services/scoring"
	"github.com/mcoot/rpsduel/internal/services/screen"
)

const (
	// MatchIDLength is the length of generated match ids
	MatchIDLength = 12
	// MatchIDAlphabet is the characters used in match ids
	MatchIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Manager owns every running match session.
// Commands and timer callbacks are serialized on a single mutex.
type Manager struct {
	mu       sync.Mutex
	sessions map[model.PlayerID]*session // keyed by human players only

	config    Config
	router    *screen.Router
	scoring   *scoring.Service
	scheduler scheduler.Scheduler
	clock     clock.Clock
	random    random.Random
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewManager creates a new match Manager
func NewManager(
	config Config,
	router *screen.Router,
	scoringService *scoring.Service,
	scheduler scheduler.Scheduler,
	clock clock.Clock,
	random random.Random,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		sessions:  make(map[model.PlayerID]*session),
		config:    config,
		router:    router,
		scoring:   scoringService,
		scheduler: scheduler,
		clock:     clock,
		random:    random,
		metrics:   m,
		logger:    logger.With(slog.String("component", "match")),
	}
}

// StartMatch starts a match between two human players and moves both to the battle screen
func (m *Manager) StartMatch(ctx context.Context, a, b model.Player) (model.MatchID, error) {
	if a.IsBotPlayer() || b.IsBotPlayer() {
		return "", model.ErrBotNotAllowed
	}
	if a.ID == b.ID {
		return "", model.ErrSelfMatch
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inMatchLocked(a.ID) || m.inMatchLocked(b.ID) {
		return "", model.ErrAlreadyInMatch
	}

	s := m.newSession(ctx, model.MatchKindPvP, a, b)
	m.sessions[a.ID] = s
	m.sessions[b.ID] = s
	m.begin(s)
	return s.id, nil
}

// StartBotMatch pairs a player with the bot. Only the player sees a screen.
func (m *Manager) StartBotMatch(ctx context.Context, player model.Player) (model.MatchID, error) {
	if player.IsBotPlayer() {
		return "", model.ErrBotNotAllowed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inMatchLocked(player.ID) {
		return "", model.ErrAlreadyInMatch
	}

	s := m.newSession(ctx, model.MatchKindBot, player, model.BotPlayer())
	m.sessions[player.ID] = s
	m.begin(s)
	return s.id, nil
}

// PickAction records a player's action for the current round.
// Picks that arrive after the countdown has ended are ignored.
func (m *Manager) PickAction(ctx context.Context, playerID model.PlayerID, action model.Action) error {
	if !action.IsValid() {
		return model.ErrInvalidAction
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[playerID]
	if !ok {
		return model.ErrNotInMatch
	}

	if s.phase != model.PhaseCountdown {
		m.logger.Debug("action ignored, round locked",
			slog.String("match_id", string(s.id)),
			slog.String("player_id", string(playerID)),
			slog.String("phase", string(s.phase)))
		return nil
	}

	i := s.indexOf(playerID)
	s.actions[i] = action
	m.router.SetSelectedAction(ctx, s.players[i], action)
	return nil
}

// CurrentMatch returns the match a player is in
func (m *Manager) CurrentMatch(playerID model.PlayerID) (model.MatchView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[playerID]
	if !ok {
		return model.MatchView{}, model.ErrNotInMatch
	}
	return s.view(s.indexOf(playerID)), nil
}

// InMatch reports whether a player has a running match
func (m *Manager) InMatch(playerID model.PlayerID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inMatchLocked(playerID)
}

// ActiveCount returns the number of running matches
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[*session]struct{})
	for _, s := range m.sessions {
		seen[s] = struct{}{}
	}
	return len(seen)
}

// Close cancels every pending timer and drops all sessions without moving players
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if s.phase != model.PhaseIdle {
			s.stopTimers()
			s.phase = model.PhaseIdle
			m.metrics.MatchEnded()
		}
		delete(m.sessions, id)
	}
}

func (m *Manager) inMatchLocked(id model.PlayerID) bool {
	_, ok := m.sessions[id]
	return ok
}

func (m *Manager) newSession(ctx context.Context, kind model.MatchKind, a, b model.Player) *session {
	return &session{
		id:        model.MatchID(m.random.String(MatchIDLength, MatchIDAlphabet)),
		kind:      kind,
		players:   [2]model.Player{a, b},
		phase:     model.PhaseIdle,
		startedAt: m.clock.Now(),
		ctx:       context.WithoutCancel(ctx),
	}
}

func (m *Manager) begin(s *session) {
	m.metrics.MatchStarted(s.kind)
	m.logger.Info("match started",
		slog.String("match_id", string(s.id)),
		slog.String("kind", string(s.kind)),
		slog.String("player_a", string(s.players[0].ID)),
		slog.String("player_b", string(s.players[1].ID)))
	m.startRound(s)
}
