// Package replay reconstructs every player's skill, record, and
// skill-over-time trajectory by folding the full chronological match log
// through the draw model and the skill-update capability.
//
// A replay is a pure function of the prior, the ordered match list, and the
// arity filter: no rating state survives between calls, and two replays of
// the same log yield identical results. Cost is O(matches) per call, an
// accepted trade-off for small histories in exchange for never holding a
// mutable global ranking.
package replay

import (
	"context"
	"fmt"
	"sort"

	"github.com/birostris/PadelRanking/internal/domain/draw"
	"github.com/birostris/PadelRanking/internal/domain/model"
	"github.com/birostris/PadelRanking/internal/domain/skill"
	"github.com/birostris/PadelRanking/pkg/logger"
)

// Filter selects which match arities take part in a replay.
type Filter struct {
	Singles bool
	Doubles bool
}

// All includes every match.
var All = Filter{Singles: true, Doubles: true}

// exclusive reports whether exactly one arity is selected. Exclusive
// filters drop players who never played a match of that arity.
func (f Filter) exclusive() bool { return f.Singles != f.Doubles }

// admits reports whether a match passes the filter.
func (f Filter) admits(m model.Match) bool {
	if m.Singles() {
		return f.Singles
	}
	return f.Doubles
}

// Result holds the per-player state reconstructed by a replay.
type Result struct {
	Ratings  map[int64]skill.Rating
	Records  map[int64]model.Record
	Progress map[int64][]model.ProgressPoint
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRater sets the skill-update capability.
func WithRater(r skill.Rater) Option {
	return func(e *Engine) {
		if r != nil {
			e.rater = r
		}
	}
}

// WithLogger enables per-match debug logging during replays.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// Engine replays a match log. Safe for concurrent use: a replay touches no
// engine state beyond the immutable rater configuration.
type Engine struct {
	rater skill.Rater
	log   logger.Logger
}

// New creates an Engine with the default two-team rater.
func New(opts ...Option) *Engine {
	e := &Engine{rater: skill.NewTwoTeamRater()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rater returns the engine's skill-update capability.
func (e *Engine) Rater() skill.Rater { return e.rater }

// Ranks derives the ordinal rank of each team from the score pair. Lower is
// better; an exact tie gives both teams the same rank, which the rater
// treats as a draw.
func Ranks(score1, score2 int) [2]int {
	var r [2]int
	if score1 <= score2 {
		r[0] = 1
	}
	if score2 <= score1 {
		r[1] = 1
	}
	return r
}

// Replay folds matches, in ascending id order, into per-player skill,
// record, and trajectory state. The inputs are treated as an immutable
// snapshot and are not modified. A match slot referencing a player absent
// from the snapshot aborts the whole replay: rankings must never be built
// from a partially applied log.
func (e *Engine) Replay(ctx context.Context, players []model.Player, matches []model.Match, f Filter) (Result, error) {
	res := Result{
		Ratings:  make(map[int64]skill.Rating, len(players)),
		Records:  make(map[int64]model.Record, len(players)),
		Progress: make(map[int64][]model.ProgressPoint, len(players)),
	}
	for _, p := range players {
		res.Ratings[p.ID] = e.rater.Prior()
		res.Records[p.ID] = model.Record{}
		res.Progress[p.ID] = nil
	}

	ordered := make([]model.Match, len(matches))
	copy(ordered, matches)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var lastID int64
	for _, m := range ordered {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("replay interrupted at match %d: %w", m.ID, err)
		}
		if !f.admits(m) {
			continue
		}
		if err := e.applyMatch(ctx, &res, m); err != nil {
			return Result{}, err
		}
		lastID = m.ID
	}

	// Flat-extend every trajectory to the last counted match so all lines
	// share the same horizontal endpoint when charted.
	for id, points := range res.Progress {
		if len(points) == 0 {
			continue
		}
		if last := points[len(points)-1]; last.MatchID != lastID {
			res.Progress[id] = append(points, model.ProgressPoint{MatchID: lastID, Skill: last.Skill})
		}
	}

	if f.exclusive() {
		for id, points := range res.Progress {
			if len(points) == 0 {
				delete(res.Ratings, id)
				delete(res.Records, id)
				delete(res.Progress, id)
			}
		}
	}

	return res, nil
}

// applyMatch updates records, ratings, and trajectories for one match.
func (e *Engine) applyMatch(ctx context.Context, res *Result, m model.Match) error {
	if m.Team1.Solo() != m.Team2.Solo() {
		return fmt.Errorf("match %d has mismatched team sizes: %w", m.ID, ErrMalformedMatch)
	}

	teams := [2]model.Team{m.Team1, m.Team2}
	scores := [2]int{m.Score1, m.Score2}

	for side, team := range teams {
		for _, id := range team.Members() {
			rec, ok := res.Records[id]
			if !ok {
				return fmt.Errorf("match %d references player %d: %w", m.ID, id, ErrUnknownPlayer)
			}
			mine, theirs := scores[side], scores[1-side]
			switch {
			case mine == theirs:
				rec.Draws++
			case mine > theirs:
				rec.Wins++
			default:
				rec.Losses++
			}
			res.Records[id] = rec
		}
	}

	prob := draw.Probability(e.rater, m.Score1, m.Score2, m.Format)
	ranks := Ranks(m.Score1, m.Score2)

	team1 := ratingsFor(res.Ratings, m.Team1)
	team2 := ratingsFor(res.Ratings, m.Team2)
	new1, new2, err := e.rater.Rate(team1, team2, ranks, prob)
	if err != nil {
		return fmt.Errorf("rating match %d: %w", m.ID, err)
	}

	if e.log != nil {
		e.log.Debug(ctx, "rated match",
			logger.Int("match", int(m.ID)),
			logger.String("score", fmt.Sprintf("%d-%d", m.Score1, m.Score2)),
			logger.String("format", m.Format.String()),
			logger.Float64("drawProbability", prob),
		)
	}

	e.applyTeam(res, m.ID, m.Team1, new1)
	e.applyTeam(res, m.ID, m.Team2, new2)
	return nil
}

// applyTeam stores updated ratings and appends trajectory checkpoints. A
// player's first checkpoint is preceded by a zero anchor one match earlier,
// so every charted line starts from the baseline.
func (e *Engine) applyTeam(res *Result, matchID int64, team model.Team, updated []skill.Rating) {
	for i, id := range team.Members() {
		res.Ratings[id] = updated[i]
		exposed := e.rater.Expose(updated[i])
		if len(res.Progress[id]) == 0 {
			res.Progress[id] = append(res.Progress[id], model.ProgressPoint{MatchID: matchID - 1, Skill: 0})
		}
		res.Progress[id] = append(res.Progress[id], model.ProgressPoint{MatchID: matchID, Skill: exposed})
	}
}

// ratingsFor collects the current ratings of a team's members, in slot
// order, so updated ratings can be written back positionally.
func ratingsFor(ratings map[int64]skill.Rating, team model.Team) []skill.Rating {
	members := team.Members()
	out := make([]skill.Rating, len(members))
	for i, id := range members {
		out[i] = ratings[id]
	}
	return out
}
