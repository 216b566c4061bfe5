package storage

import (
	"context"

	"github.com/mcoot/rpsduel/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	PlayerStore
	ScoreStore
}

// PlayerStore persists player identities and credentials
type PlayerStore interface {
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)
}

// ScoreStore persists per-player scores.
// A player with no recorded score has a score of zero.
type ScoreStore interface {
	GetScore(ctx context.Context, id model.PlayerID) (int, error)
	SetScore(ctx context.Context, id model.PlayerID, score int) error

	// TopScores returns up to limit entries, highest score first.
	// DisplayName is left empty.
	TopScores(ctx context.Context, limit int) ([]model.ScoreEntry, error)
}
