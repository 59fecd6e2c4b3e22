package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/birostris/PadelRanking/internal/domain/model"
)

//go:embed schema.sql
var schema string

// busyTimeoutMS bounds how long a writer waits on the single SQLite write
// lock before giving up.
const busyTimeoutMS = 5000

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed bootstraps) the database at path.
// Pass ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}

	// SQLite allows one writer at a time; a single connection also gives
	// Snapshot its read consistency for free.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := fmt.Sprintf("PRAGMA journal_mode = WAL; PRAGMA busy_timeout = %d;", busyTimeoutMS)
	if _, err := db.Exec(pragmas); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listPlayers(ctx context.Context, q querier) ([]model.Player, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, firstname, lastname, nick FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	defer rows.Close()

	var players []model.Player
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Nick); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func listMatches(ctx context.Context, q querier) ([]model.Match, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, player1, player2, player3, player4, score1, score2, gametype, played_at
		FROM games ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		var gametype int
		var played string
		if err := rows.Scan(&m.ID, &m.Team1.First, &m.Team1.Second, &m.Team2.First, &m.Team2.Second,
			&m.Score1, &m.Score2, &gametype, &played); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		if gametype == 1 {
			m.Format = model.FormatAmericano
		}
		t, err := time.Parse(time.RFC3339, played)
		if err != nil {
			return nil, fmt.Errorf("match %d has malformed played_at %q: %w", m.ID, played, err)
		}
		m.Played = t
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListPlayers returns all players ordered by id.
func (s *SQLiteStore) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return listPlayers(ctx, s.db)
}

// ListMatches returns all matches in ascending id order.
func (s *SQLiteStore) ListMatches(ctx context.Context) ([]model.Match, error) {
	return listMatches(ctx, s.db)
}

// Snapshot reads players and matches inside one transaction so a replay
// operates over a consistent view even while writers are active.
func (s *SQLiteStore) Snapshot(ctx context.Context) ([]model.Player, []model.Match, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	players, err := listPlayers(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	matches, err := listMatches(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	return players, matches, nil
}

// PlayerIDByNick resolves a nick; nick matching is case-sensitive.
func (s *SQLiteStore) PlayerIDByNick(ctx context.Context, nick string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM players WHERE nick = ?`, nick).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("nick %q: %w", nick, ErrPlayerNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("resolving nick %q: %w", nick, err)
	}
	return id, nil
}

// CreatePlayer allocates max(id)+1 and inserts in one transaction.
func (s *SQLiteStore) CreatePlayer(ctx context.Context, firstName, lastName, nick string) (model.Player, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Player{}, fmt.Errorf("beginning create player: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var taken int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE nick = ?`, nick).Scan(&taken); err != nil {
		return model.Player{}, fmt.Errorf("checking nick %q: %w", nick, err)
	}
	if taken > 0 {
		return model.Player{}, fmt.Errorf("nick %q: %w", nick, ErrDuplicateNick)
	}

	var next int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM players`).Scan(&next); err != nil {
		return model.Player{}, fmt.Errorf("allocating player id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO players (id, firstname, lastname, nick) VALUES (?, ?, ?, ?)`,
		next, firstName, lastName, nick); err != nil {
		return model.Player{}, fmt.Errorf("inserting player: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Player{}, fmt.Errorf("committing player: %w", err)
	}
	return model.Player{ID: next, FirstName: firstName, LastName: lastName, Nick: nick}, nil
}

// DeletePlayer removes a player by nick.
func (s *SQLiteStore) DeletePlayer(ctx context.Context, nick string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE nick = ?`, nick)
	if err != nil {
		return fmt.Errorf("deleting player %q: %w", nick, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("nick %q: %w", nick, ErrPlayerNotFound)
	}
	return nil
}

// CreateMatch allocates max(id)+1 and inserts the result with the current
// UTC time at second precision.
func (s *SQLiteStore) CreateMatch(ctx context.Context, team1, team2 model.Team, score1, score2 int, format model.Format) (model.Match, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Match{}, fmt.Errorf("beginning create match: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM games`).Scan(&next); err != nil {
		return model.Match{}, fmt.Errorf("allocating match id: %w", err)
	}

	played := time.Now().UTC().Truncate(time.Second)
	gametype := 0
	if format == model.FormatAmericano {
		gametype = 1
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO games (id, player1, player2, player3, player4, score1, score2, gametype, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		next, team1.First, team1.Second, team2.First, team2.Second,
		score1, score2, gametype, played.Format(time.RFC3339)); err != nil {
		return model.Match{}, fmt.Errorf("inserting match: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Match{}, fmt.Errorf("committing match: %w", err)
	}
	return model.Match{
		ID:     next,
		Team1:  team1,
		Team2:  team2,
		Score1: score1,
		Score2: score2,
		Format: format,
		Played: played,
	}, nil
}

// DeleteMatch removes one match by id.
func (s *SQLiteStore) DeleteMatch(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting match %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("match %d: %w", id, ErrMatchNotFound)
	}
	return nil
}

// DeleteAllMatches clears the match log.
func (s *SQLiteStore) DeleteAllMatches(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM games`); err != nil {
		return fmt.Errorf("deleting matches: %w", err)
	}
	return nil
}
