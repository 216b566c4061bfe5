package model

// Screen names a client-side screen a player can be moved to
type Screen string

const (
	ScreenMainMenu  Screen = "main-menu"
	ScreenBattle    Screen = "battle"
	ScreenBotBattle Screen = "bot-battle"
	ScreenResults   Screen = "results"
)

// PrivateDataKey names an ephemeral per-player value pushed to the client
type PrivateDataKey string

const (
	DataRemainingTime  PrivateDataKey = "remaining-time"
	DataSelectedAction PrivateDataKey = "selected-action"
)

// BattlePayload accompanies the battle and bot-battle screens
type BattlePayload struct {
	Opponent Player
}

// ResultsPayload accompanies the results screen
type ResultsPayload struct {
	Opponent Player
	Outcome  Outcome
}

// PlayerView is the last known screen and private data for a player
type PlayerView struct {
	PlayerID PlayerID
	Screen   Screen
	Payload  any
	Data     map[PrivateDataKey]any
}
