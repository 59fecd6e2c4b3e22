// Package repository defines the player/match store interface and errors.
package repository

import (
	"context"

	"github.com/birostris/PadelRanking/internal/domain/model"
)

// Store provides access to the persistent player and match records. Derived
// rating state is never stored; it is recomputed from the match log.
type Store interface {
	// ListPlayers returns all players ordered by id.
	ListPlayers(ctx context.Context) ([]model.Player, error)

	// ListMatches returns all matches in ascending id order.
	ListMatches(ctx context.Context) ([]model.Match, error)

	// Snapshot returns players and matches from a single consistent read,
	// so an in-flight replay never sees a half-applied mutation.
	Snapshot(ctx context.Context) ([]model.Player, []model.Match, error)

	// PlayerIDByNick resolves a nick to a player id.
	// Returns ErrPlayerNotFound for an unknown nick.
	PlayerIDByNick(ctx context.Context, nick string) (int64, error)

	// CreatePlayer registers a player with the next free id.
	// Returns ErrDuplicateNick if the nick is taken.
	CreatePlayer(ctx context.Context, firstName, lastName, nick string) (model.Player, error)

	// DeletePlayer removes a player by nick. Recorded matches keep their
	// player ids; deletion is an administrative escape hatch.
	DeletePlayer(ctx context.Context, nick string) error

	// CreateMatch records a result with the next free id and the current
	// UTC time.
	CreateMatch(ctx context.Context, team1, team2 model.Team, score1, score2 int, format model.Format) (model.Match, error)

	// DeleteMatch removes a single match. Returns ErrMatchNotFound if the
	// id is unknown.
	DeleteMatch(ctx context.Context, id int64) error

	// DeleteAllMatches clears the match log.
	DeleteAllMatches(ctx context.Context) error

	// Close releases the underlying database handle.
	Close() error
}
