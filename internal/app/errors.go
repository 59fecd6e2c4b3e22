package app

import "errors"

// Sentinel kinds for service errors. Storage-level kinds
// (ErrPlayerNotFound, ErrDuplicateNick, ErrMatchNotFound) surface from the
// repository package unchanged.
var (
	ErrUnauthorized    = errors.New("not authorized")
	ErrDegenerateMatch = errors.New("degenerate match")
	ErrLoneTeammate    = errors.New("second slots must both be set or both empty")
	ErrEmptySlot       = errors.New("first player slot of each team is required")
)
