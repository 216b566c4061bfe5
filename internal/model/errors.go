package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound    = errors.New("player not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrReservedName      = errors.New("name is reserved")
	ErrInvalidName       = errors.New("invalid name")
	ErrBotNotAllowed     = errors.New("bot player cannot perform this operation")

	// Matchmaking errors
	ErrInvalidPartySize = errors.New("party size must be at least 2")

	// Match errors
	ErrAlreadyInMatch = errors.New("player is already in a match")
	ErrNotInMatch     = errors.New("player is not in a match")
	ErrSelfMatch      = errors.New("player cannot be matched against themselves")
	ErrInvalidAction  = errors.New("invalid action")
	ErrActionUnset    = errors.New("action is unset")
)
