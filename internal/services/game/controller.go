package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/rpsduel/internal/metrics"
	"github.com/mcoot/rpsduel/internal/model"
	"github.com/mcoot/rpsduel/internal/services/match"
	"github.com/mcoot/rpsduel/internal/services/matchmaking"
)

// ControllerInterface is the set of player commands
type ControllerInterface interface {
	StartMatchmaking(ctx context.Context, player model.Player) (Status, error)
	StopMatchmaking(ctx context.Context, playerID model.PlayerID) (bool, error)
	PickAction(ctx context.Context, playerID model.PlayerID, action model.Action) error
	StartBotMatch(ctx context.Context, player model.Player) (model.MatchView, error)
	Status(playerID model.PlayerID) Status
}

// Ensure Controller implements ControllerInterface
var _ ControllerInterface = (*Controller)(nil)

// Status describes where a player is: waiting, playing, or neither
type Status struct {
	Waiting   bool
	QueueSize int
	Match     *model.MatchView
}

// Controller routes player commands to the matchmaker and the match manager.
// Commands that can place a player are serialized on mu, so a party handed from
// the pool to the match manager is never visible as neither waiting nor playing.
type Controller struct {
	mu         sync.Mutex
	matchmaker *matchmaking.Matchmaker
	matches    *match.Manager
	logger     *slog.Logger
}

// NewController creates a new game Controller with its own matchmaking pool
func NewController(matches *match.Manager, m *metrics.Metrics, logger *slog.Logger) (*Controller, error) {
	c := &Controller{
		matches: matches,
		logger:  logger.With(slog.String("component", "game")),
	}

	mm, err := matchmaking.New(matchmaking.PartySize, c.onMatch, m, logger)
	if err != nil {
		return nil, err
	}
	c.matchmaker = mm
	return c, nil
}

// StartMatchmaking puts the player in the pool, starting a match if an opponent is waiting
func (c *Controller) StartMatchmaking(ctx context.Context, player model.Player) (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.matches.InMatch(player.ID) {
		return Status{}, model.ErrAlreadyInMatch
	}

	if _, err := c.matchmaker.StartMatching(ctx, player); err != nil {
		return Status{}, err
	}
	return c.Status(player.ID), nil
}

// StopMatchmaking takes the player out of the pool. Returns false if they were not waiting.
func (c *Controller) StopMatchmaking(ctx context.Context, playerID model.PlayerID) (bool, error) {
	return c.matchmaker.StopMatching(ctx, playerID), nil
}

// PickAction records the player's action for the round in progress
func (c *Controller) PickAction(ctx context.Context, playerID model.PlayerID, action model.Action) error {
	return c.matches.PickAction(ctx, playerID, action)
}

// StartBotMatch starts a match against the bot, leaving the pool first if needed
func (c *Controller) StartBotMatch(ctx context.Context, player model.Player) (model.MatchView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.matches.InMatch(player.ID) {
		return model.MatchView{}, model.ErrAlreadyInMatch
	}

	c.matchmaker.StopMatching(ctx, player.ID)

	if _, err := c.matches.StartBotMatch(ctx, player); err != nil {
		return model.MatchView{}, err
	}
	return c.matches.CurrentMatch(player.ID)
}

// Status reports whether the player is waiting or playing
func (c *Controller) Status(playerID model.PlayerID) Status {
	st := Status{
		Waiting:   c.matchmaker.IsWaiting(playerID),
		QueueSize: c.matchmaker.QueueSize(),
	}
	if view, err := c.matches.CurrentMatch(playerID); err == nil {
		st.Match = &view
	}
	return st
}

// CurrentMatch returns the match the player is in
func (c *Controller) CurrentMatch(playerID model.PlayerID) (model.MatchView, error) {
	return c.matches.CurrentMatch(playerID)
}

// onMatch starts a match for a party formed by the matchmaker.
// If the match cannot start, players who are still free go back in the pool.
// It runs inside StartMatchmaking, with c.mu held.
func (c *Controller) onMatch(ctx context.Context, players []model.Player) {
	if len(players) != matchmaking.PartySize {
		c.logger.Error("unexpected party size", slog.Int("size", len(players)))
		return
	}

	_, err := c.matches.StartMatch(ctx, players[0], players[1])
	if err == nil {
		return
	}

	c.logger.Warn("could not start match, requeueing free players",
		slog.String("player_a", string(players[0].ID)),
		slog.String("player_b", string(players[1].ID)),
		slog.String("error", err.Error()))

	for _, p := range players {
		if c.matches.InMatch(p.ID) {
			continue
		}
		if _, err := c.matchmaker.StartMatching(ctx, p); err != nil {
			c.logger.Error("failed to requeue player",
				slog.String("player_id", string(p.ID)),
				slog.String("error", err.Error()))
		}
	}
}
