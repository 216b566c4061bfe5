package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// BotPlayerID is the reserved id of the synthetic opponent used for single-player matches
const BotPlayerID PlayerID = "bot"

// Player represents a game participant
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // true for unregistered players
	IsBot       bool
	CreatedAt   time.Time
}

// IsBotPlayer reports whether p is the bot, by flag or by reserved id
func (p Player) IsBotPlayer() bool {
	return p.IsBot || p.ID == BotPlayerID
}

// BotPlayer returns the bot opponent. It is never stored, scored or shown a screen.
func BotPlayer() Player {
	return Player{
		ID:          BotPlayerID,
		DisplayName: "bot",
		IsBot:       true,
	}
}

// RegisteredPlayer holds the credentials of a non-guest player
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ScoreEntry is one row of the leaderboard
type ScoreEntry struct {
	PlayerID    PlayerID
	DisplayName string
	Score       int
}
