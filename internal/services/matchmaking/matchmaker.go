package matchmaking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/rpsduel/internal/metrics"
	"github.com/mcoot/rpsduel/internal/model"
)

// PartySize is the number of players in a match
const PartySize = 2

// MatchFunc receives a full party, in arrival order
type MatchFunc func(ctx context.Context, players []model.Player)

// Matchmaker is a first-in-first-out waiting pool
type Matchmaker struct {
	mu        sync.Mutex
	queue     []model.Player
	partySize int
	onMatch   MatchFunc
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Matchmaker that calls onMatch whenever partySize players are waiting.
// The party size cannot change afterwards.
func New(partySize int, onMatch MatchFunc, m *metrics.Metrics, logger *slog.Logger) (*Matchmaker, error) {
	if partySize < 2 {
		return nil, fmt.Errorf("%w: got %d", model.ErrInvalidPartySize, partySize)
	}
	return &Matchmaker{
		partySize: partySize,
		onMatch:   onMatch,
		metrics:   m,
		logger:    logger.With(slog.String("component", "matchmaker")),
	}, nil
}

// StartMatching adds a player to the pool. Adding a player who is already
// waiting does nothing. When the pool fills a party, the party is removed and
// handed to the match callback before StartMatching returns.
func (m *Matchmaker) StartMatching(ctx context.Context, player model.Player) (bool, error) {
	if player.IsBotPlayer() {
		return false, model.ErrBotNotAllowed
	}

	m.mu.Lock()
	if m.indexOf(player.ID) >= 0 {
		m.mu.Unlock()
		return false, nil
	}
	m.queue = append(m.queue, player)

	var party []model.Player
	if len(m.queue) >= m.partySize {
		party = make([]model.Player, m.partySize)
		copy(party, m.queue)
		m.queue = append(m.queue[:0:0], m.queue[m.partySize:]...)
	}
	size := len(m.queue)
	m.mu.Unlock()

	m.metrics.SetQueueSize(size)
	m.logger.Debug("player waiting",
		slog.String("player_id", string(player.ID)),
		slog.Int("queue_size", size))

	if party == nil {
		return false, nil
	}

	ids := make([]string, len(party))
	for i, p := range party {
		ids[i] = string(p.ID)
	}
	m.logger.Info("party formed", slog.Any("player_ids", ids))

	// Called outside the lock so the callback may re-enter the matchmaker
	m.onMatch(ctx, party)

	return m.contains(party, player.ID), nil
}

// StopMatching removes a player from the pool. Absent players are ignored.
func (m *Matchmaker) StopMatching(ctx context.Context, playerID model.PlayerID) bool {
	m.mu.Lock()
	i := m.indexOf(playerID)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	m.queue = append(m.queue[:i], m.queue[i+1:]...)
	size := len(m.queue)
	m.mu.Unlock()

	m.metrics.SetQueueSize(size)
	m.logger.Debug("player left pool",
		slog.String("player_id", string(playerID)),
		slog.Int("queue_size", size))
	return true
}

// IsWaiting reports whether a player is in the pool
func (m *Matchmaker) IsWaiting(playerID model.PlayerID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexOf(playerID) >= 0
}

// QueueSize returns the number of waiting players
func (m *Matchmaker) QueueSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// PartySize returns the configured party size
func (m *Matchmaker) PartySize() int {
	return m.partySize
}

// Waiting returns the pool in arrival order
func (m *Matchmaker) Waiting() []model.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Player, len(m.queue))
	copy(out, m.queue)
	return out
}

func (m *Matchmaker) indexOf(id model.PlayerID) int {
	for i, p := range m.queue {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (m *Matchmaker) contains(players []model.Player, id model.PlayerID) bool {
	for _, p := range players {
		if p.ID == id {
			return true
		}
	}
	return false
}
