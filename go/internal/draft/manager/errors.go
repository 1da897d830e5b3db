package manager

import "errors"

var (
	// ErrIncompleteLeagueContext means league, user or roster data could not
	// be loaded. Initialization falls back to mock-draft defaults.
	ErrIncompleteLeagueContext = errors.New("incomplete league context")
	ErrNotInitialized          = errors.New("draft manager not initialized")
	ErrAlreadyMonitoring       = errors.New("draft monitoring already running")
	ErrStopTimeout             = errors.New("monitoring worker did not stop in time")
	ErrUnknownRoster           = errors.New("unknown roster")
)
