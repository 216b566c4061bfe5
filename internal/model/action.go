package model

import (
	"fmt"
	"strings"
)

// Action is a move a player makes in a round
type Action string

const (
	ActionUnset    Action = ""
	ActionRock     Action = "rock"
	ActionPaper    Action = "paper"
	ActionScissors Action = "scissors"
)

// ConcreteActions lists the playable actions in draw order (0..2)
var ConcreteActions = [...]Action{ActionRock, ActionPaper, ActionScissors}

// ParseAction converts client input into an Action.
// An empty string or "null" clears the selection.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null":
		return ActionUnset, nil
	case "rock":
		return ActionRock, nil
	case "paper":
		return ActionPaper, nil
	case "scissors":
		return ActionScissors, nil
	default:
		return ActionUnset, fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

// IsSet reports whether a concrete action has been chosen
func (a Action) IsSet() bool {
	return a != ActionUnset
}

// IsValid reports whether a is unset or one of the concrete actions
func (a Action) IsValid() bool {
	switch a {
	case ActionUnset, ActionRock, ActionPaper, ActionScissors:
		return true
	}
	return false
}

// beats returns the action a defeats
func (a Action) beats() Action {
	switch a {
	case ActionRock:
		return ActionScissors
	case ActionPaper:
		return ActionRock
	case ActionScissors:
		return ActionPaper
	}
	return ActionUnset
}

// Outcome is a round result from one player's point of view
type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
	OutcomeTie  Outcome = "tie"
)

// Opposite returns the outcome seen by the other player
func (o Outcome) Opposite() Outcome {
	switch o {
	case OutcomeWon:
		return OutcomeLost
	case OutcomeLost:
		return OutcomeWon
	}
	return OutcomeTie
}

// Resolve compares a against b and returns the outcome for the player who played a.
// Both actions must be concrete.
func Resolve(a, b Action) (Outcome, error) {
	if !a.IsSet() || !b.IsSet() {
		return OutcomeTie, ErrActionUnset
	}
	switch {
	case a == b:
		return OutcomeTie, nil
	case a.beats() == b:
		return OutcomeWon, nil
	case b.beats() == a:
		return OutcomeLost, nil
	}
	return OutcomeTie, fmt.Errorf("%w: cannot compare %q and %q", ErrInvalidAction, a, b)
}
