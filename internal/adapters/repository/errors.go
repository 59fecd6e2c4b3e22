package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrDuplicateNick  = errors.New("nick already taken")
)
