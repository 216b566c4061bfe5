package screen

import (
	"context"
	"log/slog"

	"github.com/mcoot/rpsduel/internal/model"
)

// Transport delivers screen changes and private data to a connected player.
// Delivery is best effort.
type Transport interface {
	Transition(ctx context.Context, playerID model.PlayerID, screen model.Screen, payload any) error
	SetPrivateData(ctx context.Context, playerID model.PlayerID, key model.PrivateDataKey, value any) error
}

// Router turns match events into screen transitions and private data writes.
// Calls for the bot are dropped.
type Router struct {
	transport Transport
	logger    *slog.Logger
}

// New creates a new Router
func New(transport Transport, logger *slog.Logger) *Router {
	return &Router{
		transport: transport,
		logger:    logger.With(slog.String("component", "screen-router")),
	}
}

// ToMainMenu returns a player to the main menu
func (r *Router) ToMainMenu(ctx context.Context, player model.Player) {
	r.transition(ctx, player, model.ScreenMainMenu, nil)
}

// ToBattle shows the battle screen against a human opponent
func (r *Router) ToBattle(ctx context.Context, player, opponent model.Player) {
	r.transition(ctx, player, model.ScreenBattle, model.BattlePayload{Opponent: opponent})
}

// ToBotBattle shows the bot battle screen
func (r *Router) ToBotBattle(ctx context.Context, player, bot model.Player) {
	r.transition(ctx, player, model.ScreenBotBattle, model.BattlePayload{Opponent: bot})
}

// ToResults shows the round outcome from player's perspective
func (r *Router) ToResults(ctx context.Context, player, opponent model.Player, outcome model.Outcome) {
	r.transition(ctx, player, model.ScreenResults, model.ResultsPayload{
		Opponent: opponent,
		Outcome:  outcome,
	})
}

// SetRemainingTime publishes the countdown in whole seconds
func (r *Router) SetRemainingTime(ctx context.Context, player model.Player, seconds int) {
	r.setPrivateData(ctx, player, model.DataRemainingTime, seconds)
}

// SetSelectedAction publishes the player's current pick. Unset is sent as null.
func (r *Router) SetSelectedAction(ctx context.Context, player model.Player, action model.Action) {
	var value any
	if action.IsSet() {
		value = string(action)
	}
	r.setPrivateData(ctx, player, model.DataSelectedAction, value)
}

func (r *Router) transition(ctx context.Context, player model.Player, screen model.Screen, payload any) {
	if player.IsBotPlayer() {
		return
	}
	if err := r.transport.Transition(ctx, player.ID, screen, payload); err != nil {
		r.logger.Warn("screen transition failed",
			slog.String("player_id", string(player.ID)),
			slog.String("screen", string(screen)),
			slog.Any("error", err))
	}
}

func (r *Router) setPrivateData(ctx context.Context, player model.Player, key model.PrivateDataKey, value any) {
	if player.IsBotPlayer() {
		return
	}
	if err := r.transport.SetPrivateData(ctx, player.ID, key, value); err != nil {
		r.logger.Warn("private data push failed",
			slog.String("player_id", string(player.ID)),
			slog.String("key", string(key)),
			slog.Any("error", err))
	}
}
