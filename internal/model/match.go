package model

import "time"

// MatchID uniquely identifies a match session
type MatchID string

// MatchKind distinguishes matches between two people from matches against the bot
type MatchKind string

const (
	MatchKindPvP MatchKind = "pvp"
	MatchKindBot MatchKind = "bot"
)

// MatchPhase is the state of the current round
type MatchPhase string

const (
	PhaseCountdown     MatchPhase = "countdown"      // Collecting actions
	PhaseResolving     MatchPhase = "resolving"      // Deadline passed, round locked
	PhaseResultDisplay MatchPhase = "result_display" // Showing the outcome
	PhaseIdle          MatchPhase = "idle"           // Match over
)

// RoundResult records how a round was decided
type RoundResult struct {
	MatchID MatchID
	Round   int
	Players [2]Player
	Actions [2]Action
	Winner  *PlayerID // nil on a tie
}

// IsTie returns true if nobody won the round
func (r RoundResult) IsTie() bool {
	return r.Winner == nil
}

// OutcomeFor returns the outcome from the given player's perspective
func (r RoundResult) OutcomeFor(id PlayerID) Outcome {
	if r.Winner == nil {
		return OutcomeTie
	}
	if *r.Winner == id {
		return OutcomeWon
	}
	return OutcomeLost
}

// MatchView is a read-only snapshot of a match as seen by one player
type MatchView struct {
	ID             MatchID
	Kind           MatchKind
	Phase          MatchPhase
	Round          int
	RemainingTime  int
	Opponent       Player
	SelectedAction Action
	LastResult     *RoundResult
	StartedAt      time.Time
}
