package vorp

import "errors"

var (
	// ErrNoModelForPosition marks positions without a replacement model
	// (K, DEF). Such players score zero instead of failing the batch.
	ErrNoModelForPosition = errors.New("no replacement model for position")
	// ErrInsufficientPlayerPool is returned when no valid player rows remain.
	ErrInsufficientPlayerPool = errors.New("insufficient player pool")
	// ErrTeamRequired is returned when a live state is supplied without the
	// roster the recommendations are for.
	ErrTeamRequired = errors.New("team is required when a draft state is supplied")
	// ErrUnknownTeam is returned when the roster has no draft slot.
	ErrUnknownTeam = errors.New("team has no draft slot")
)
