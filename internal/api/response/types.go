package response

import (
	"time"

	"github.com/mcoot/rpsduel/internal/model"
	"github.com/mcoot/rpsduel/internal/services/auth"
	"github.com/mcoot/rpsduel/internal/services/game"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	IsBot       bool   `json:"is_bot,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
		IsBot:       p.IsBotPlayer(),
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(s.Player),
		SessionToken: s.Token,
	}
}

// Me is the authenticated player with their score
type Me struct {
	Player
	Score int `json:"score"`
}

// RoundResult is the outcome of the last resolved round
type RoundResult struct {
	Round          int     `json:"round"`
	YourAction     string  `json:"your_action"`
	OpponentAction string  `json:"opponent_action"`
	Outcome        string  `json:"outcome"`
	WinnerID       *string `json:"winner_id"`
}

// Match is a match as seen by the requesting player
type Match struct {
	ID             string       `json:"id"`
	Kind           string       `json:"kind"`
	Phase          string       `json:"phase"`
	Round          int          `json:"round"`
	RemainingTime  int          `json:"remaining_time"`
	Opponent       Player       `json:"opponent"`
	SelectedAction *string      `json:"selected_action"`
	LastResult     *RoundResult `json:"last_result,omitempty"`
	StartedAt      time.Time    `json:"started_at"`
}

// MatchFromModel converts a MatchView for the given viewer
func MatchFromModel(v model.MatchView, viewer model.PlayerID) Match {
	m := Match{
		ID:             string(v.ID),
		Kind:           string(v.Kind),
		Phase:          string(v.Phase),
		Round:          v.Round,
		RemainingTime:  v.RemainingTime,
		Opponent:       PlayerFromModel(v.Opponent),
		SelectedAction: actionPtr(v.SelectedAction),
		StartedAt:      v.StartedAt,
	}

	if r := v.LastResult; r != nil {
		me, them := 0, 1
		if r.Players[1].ID == viewer {
			me, them = 1, 0
		}
		result := &RoundResult{
			Round:          r.Round,
			YourAction:     string(r.Actions[me]),
			OpponentAction: string(r.Actions[them]),
			Outcome:        string(r.OutcomeFor(viewer)),
		}
		if r.Winner != nil {
			w := string(*r.Winner)
			result.WinnerID = &w
		}
		m.LastResult = result
	}
	return m
}

// MatchmakingStatus is returned by the matchmaking endpoints
type MatchmakingStatus struct {
	Status    string `json:"status"` // waiting, matched or idle
	QueueSize int    `json:"queue_size"`
	Match     *Match `json:"match,omitempty"`
}

// MatchmakingStatusFromGame converts a game.Status
func MatchmakingStatusFromGame(st game.Status, viewer model.PlayerID) MatchmakingStatus {
	out := MatchmakingStatus{Status: "idle", QueueSize: st.QueueSize}
	switch {
	case st.Match != nil:
		out.Status = "matched"
		m := MatchFromModel(*st.Match, viewer)
		out.Match = &m
	case st.Waiting:
		out.Status = "waiting"
	}
	return out
}

// BattleScreen is the payload of the battle and bot-battle screens
type BattleScreen struct {
	Opponent Player `json:"opponent"`
}

// ResultsScreen is the payload of the results screen
type ResultsScreen struct {
	Opponent Player `json:"opponent"`
	Outcome  string `json:"outcome"`
}

// ScreenPayload converts a screen payload to its wire form
func ScreenPayload(payload any) any {
	switch p := payload.(type) {
	case nil:
		return nil
	case model.BattlePayload:
		return BattleScreen{Opponent: PlayerFromModel(p.Opponent)}
	case model.ResultsPayload:
		return ResultsScreen{Opponent: PlayerFromModel(p.Opponent), Outcome: string(p.Outcome)}
	default:
		return p
	}
}

// ScreenEvent is the data of a "screen" stream event
type ScreenEvent struct {
	Screen  string `json:"screen"`
	Payload any    `json:"payload,omitempty"`
}

// PrivateDataEvent is the data of a "private-data" stream event
type PrivateDataEvent struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// PlayerState is the last screen and private data pushed to a player
type PlayerState struct {
	Screen  string         `json:"screen"`
	Payload any            `json:"payload,omitempty"`
	Data    map[string]any `json:"data"`
}

// PlayerStateFromModel converts a PlayerView
func PlayerStateFromModel(v model.PlayerView) PlayerState {
	data := make(map[string]any, len(v.Data))
	for k, val := range v.Data {
		data[string(k)] = val
	}
	return PlayerState{
		Screen:  string(v.Screen),
		Payload: ScreenPayload(v.Payload),
		Data:    data,
	}
}

// LeaderboardEntry is one leaderboard row
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
}

// Leaderboard is the leaderboard response
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromModel converts score entries, ranking from 1
func LeaderboardFromModel(entries []model.ScoreEntry) Leaderboard {
	out := Leaderboard{Entries: make([]LeaderboardEntry, len(entries))}
	for i, e := range entries {
		out.Entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			PlayerID:    string(e.PlayerID),
			DisplayName: e.DisplayName,
			Score:       e.Score,
		}
	}
	return out
}

func actionPtr(a model.Action) *string {
	if !a.IsSet() {
		return nil
	}
	s := string(a)
	return &s
}
