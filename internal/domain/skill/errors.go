package skill

import "errors"

// Sentinel kinds for rating errors.
var (
	ErrEmptyTeam          = errors.New("team has no members")
	ErrBadDrawProbability = errors.New("draw probability outside [0, 1)")
)
