// Package app provides the core business service that implements the
// dependencies required by the HTTP API: it joins the storage collaborator
// with the replay engine and the ranking composer.
package app

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/birostris/PadelRanking/internal/adapters/repository"
	"github.com/birostris/PadelRanking/internal/domain/model"
	"github.com/birostris/PadelRanking/internal/domain/replay"
	"github.com/birostris/PadelRanking/internal/domain/skill"
	"github.com/birostris/PadelRanking/internal/domain/standings"
	"github.com/birostris/PadelRanking/pkg/logger"
	"github.com/birostris/PadelRanking/pkg/metrics"
)

// RankingSkill is the rating detail of a leaderboard entry.
type RankingSkill struct {
	Ranking float64 `json:"ranking"`
	Mu      float64 `json:"mu"`
	Sigma   float64 `json:"sigma"`
}

// RankingEntry is one leaderboard row as served to clients, best first.
type RankingEntry struct {
	Name      string                `json:"Name"`
	Position  int                   `json:"Position"`
	TrueSkill RankingSkill          `json:"TrueSkill"`
	Record    model.Record          `json:"Record"`
	Progress  []model.ProgressPoint `json:"Progress"`
}

// GameView is a recorded match with nicks substituted for ids; absent
// teammate slots are null.
type GameView struct {
	ID        int64     `json:"id"`
	Player1   *string   `json:"player1"`
	Player2   *string   `json:"player2"`
	Player3   *string   `json:"player3"`
	Player4   *string   `json:"player4"`
	Score1    int       `json:"score1"`
	Score2    int       `json:"score2"`
	Americano bool      `json:"americano"`
	Played    time.Time `json:"played_at"`
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the storage collaborator. Required.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRater sets the skill-update capability used for replays.
func WithRater(r skill.Rater) Option {
	return func(s *Service) {
		if r != nil {
			s.rater = r
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithDeleteSecret sets the shared secret authorizing match deletion.
func WithDeleteSecret(secret string) Option {
	return func(s *Service) {
		s.deleteSecret = secret
	}
}

// Service implements the API dependencies for the ranking system. Rankings
// are recomputed from the full match history on every request; nothing is
// cached between calls, so every response reflects the log as stored.
type Service struct {
	store        repository.Store
	rater        skill.Rater
	engine       *replay.Engine
	deleteSecret string
	log          logger.Logger

	mu                sync.RWMutex
	lastReplayElapsed time.Duration
	lastReplayCount   int
}

// New constructs a Service. The replay engine is built from the configured
// rater, so one Service replays with one consistent environment.
func New(opts ...Option) *Service {
	s := &Service{
		rater:        skill.NewTwoTeamRater(),
		deleteSecret: "password",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	s.engine = replay.New(replay.WithRater(s.rater), replay.WithLogger(s.log))
	return s
}

// Close releases the storage collaborator.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// parseFilter maps the HTTP filter selector onto the replay filter. Absent
// or unrecognized selectors mean all matches.
func parseFilter(selector string) replay.Filter {
	switch selector {
	case "singles":
		return replay.Filter{Singles: true}
	case "doubles":
		return replay.Filter{Doubles: true}
	default:
		return replay.All
	}
}

// Standings replays the full match log and returns the positioned
// leaderboard for the given filter selector. O(matches) per call.
func (s *Service) Standings(ctx context.Context, selector string) ([]RankingEntry, error) {
	players, matches, err := s.store.Snapshot(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	metrics.UpdatePlayersTotal(len(players))
	metrics.UpdateMatchesTotal(len(matches))

	start := time.Now()
	res, err := s.engine.Replay(ctx, players, matches, parseFilter(selector))
	if err != nil {
		metrics.RecordReplayError()
		return nil, fmt.Errorf("replaying match log: %w", err)
	}
	elapsed := time.Since(start)
	metrics.RecordReplay(elapsed.Seconds(), len(matches))

	s.mu.Lock()
	s.lastReplayElapsed = elapsed
	s.lastReplayCount = len(matches)
	s.mu.Unlock()

	nicks := make(map[int64]string, len(players))
	for _, p := range players {
		nicks[p.ID] = p.Nick
	}

	rows := standings.Compose(res, s.rater)
	entries := make([]RankingEntry, len(rows))
	for i, row := range rows {
		entries[i] = RankingEntry{
			Name:     nicks[row.PlayerID],
			Position: row.Position,
			TrueSkill: RankingSkill{
				Ranking: row.Skill,
				Mu:      row.Rating.Mu,
				Sigma:   row.Rating.Sigma,
			},
			Record:   row.Record,
			Progress: row.Progress,
		}
	}

	s.log.Debug(ctx, "computed standings",
		logger.String("filter", selector),
		logger.Int("players", len(entries)),
		logger.Int("matches", len(matches)),
		logger.Any("elapsed", elapsed),
	)
	return entries, nil
}

// Players returns all registered players.
func (s *Service) Players(ctx context.Context) ([]model.Player, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("listing players: %w", err)
	}
	return players, nil
}

// Games returns all recorded matches with nicks joined in.
func (s *Service) Games(ctx context.Context) ([]GameView, error) {
	players, matches, err := s.store.Snapshot(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	nicks := make(map[int64]string, len(players))
	for _, p := range players {
		nicks[p.ID] = p.Nick
	}
	name := func(id int64) *string {
		if id == model.NoPlayer {
			return nil
		}
		n := nicks[id]
		return &n
	}

	views := make([]GameView, len(matches))
	for i, m := range matches {
		views[i] = GameView{
			ID:        m.ID,
			Player1:   name(m.Team1.First),
			Player2:   name(m.Team1.Second),
			Player3:   name(m.Team2.First),
			Player4:   name(m.Team2.Second),
			Score1:    m.Score1,
			Score2:    m.Score2,
			Americano: m.Format == model.FormatAmericano,
			Played:    m.Played,
		}
	}
	return views, nil
}

// AddPlayer registers a new player. Fails with repository.ErrDuplicateNick
// when the nick is taken; nothing is created on failure.
func (s *Service) AddPlayer(ctx context.Context, firstName, lastName, nick string) (model.Player, error) {
	if nick == "" {
		return model.Player{}, fmt.Errorf("adding player: %w", ErrEmptySlot)
	}
	p, err := s.store.CreatePlayer(ctx, firstName, lastName, nick)
	if err != nil {
		return model.Player{}, fmt.Errorf("adding player: %w", err)
	}
	s.log.Info(ctx, "added player",
		logger.Int64("id", p.ID),
		logger.String("nick", p.Nick),
	)
	return p, nil
}

// AddGame validates and records a match. All four references must resolve
// before anything is written; unresolvable ones fail the whole call.
func (s *Service) AddGame(ctx context.Context, refs [4]PlayerRef, score1, score2 int, americano bool) (model.Match, error) {
	if score1 < 0 || score2 < 0 {
		return model.Match{}, fmt.Errorf("adding game: scores must be non-negative: %w", ErrDegenerateMatch)
	}
	if americano && score1+score2 == 0 {
		// A 0-0 americano result has no margin to judge; rejecting it here
		// keeps the replay engine total.
		return model.Match{}, fmt.Errorf("adding game: americano with no points played: %w", ErrDegenerateMatch)
	}
	if refs[0].Empty() || refs[2].Empty() {
		return model.Match{}, fmt.Errorf("adding game: %w", ErrEmptySlot)
	}
	if refs[1].Empty() != refs[3].Empty() {
		return model.Match{}, fmt.Errorf("adding game: %w", ErrLoneTeammate)
	}

	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return model.Match{}, fmt.Errorf("adding game: %w", err)
	}
	byID := make(map[int64]bool, len(players))
	byNick := make(map[string]int64, len(players))
	for _, p := range players {
		byID[p.ID] = true
		byNick[p.Nick] = p.ID
	}

	var ids [4]int64
	for i, ref := range refs {
		id, err := resolveRef(ref, byID, byNick)
		if err != nil {
			return model.Match{}, fmt.Errorf("adding game: slot %d: %w", i+1, err)
		}
		ids[i] = id
	}

	format := model.FormatNormal
	if americano {
		format = model.FormatAmericano
	}
	m, err := s.store.CreateMatch(ctx,
		model.Team{First: ids[0], Second: ids[1]},
		model.Team{First: ids[2], Second: ids[3]},
		score1, score2, format)
	if err != nil {
		metrics.RecordStoreError()
		return model.Match{}, fmt.Errorf("adding game: %w", err)
	}
	s.log.Info(ctx, "added game",
		logger.Int64("id", m.ID),
		logger.String("score", fmt.Sprintf("%d-%d", score1, score2)),
		logger.String("format", format.String()),
	)
	return m, nil
}

// resolveRef turns a nick or id reference into a stored player id. The
// sentinel id is only reachable through an empty reference.
func resolveRef(ref PlayerRef, byID map[int64]bool, byNick map[string]int64) (int64, error) {
	if ref.Empty() {
		return model.NoPlayer, nil
	}
	if ref.Nick != "" {
		id, ok := byNick[ref.Nick]
		if !ok {
			return 0, fmt.Errorf("nick %q: %w", ref.Nick, repository.ErrPlayerNotFound)
		}
		return id, nil
	}
	if ref.ID < 0 || !byID[ref.ID] {
		return 0, fmt.Errorf("id %d: %w", ref.ID, repository.ErrPlayerNotFound)
	}
	return ref.ID, nil
}

// DeleteGame removes a match after checking the shared secret. A mismatch
// or a negative id fails with ErrUnauthorized and deletes nothing.
func (s *Service) DeleteGame(ctx context.Context, id int64, secret string) error {
	if id < 0 || subtle.ConstantTimeCompare([]byte(secret), []byte(s.deleteSecret)) != 1 {
		return fmt.Errorf("deleting game %d: %w", id, ErrUnauthorized)
	}
	if err := s.store.DeleteMatch(ctx, id); err != nil {
		return fmt.Errorf("deleting game %d: %w", id, err)
	}
	s.log.Info(ctx, "deleted game", logger.Int64("id", id))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	stats := map[string]any{}

	s.mu.RLock()
	stats["lastReplayMillis"] = s.lastReplayElapsed.Milliseconds()
	stats["lastReplayMatches"] = s.lastReplayCount
	s.mu.RUnlock()

	if players, err := s.store.ListPlayers(ctx); err == nil {
		stats["players"] = len(players)
		metrics.UpdatePlayersTotal(len(players))
	} else {
		metrics.RecordStoreError()
		s.log.Warn(ctx, "reading player count for stats", logger.Error(err))
	}
	if matches, err := s.store.ListMatches(ctx); err == nil {
		stats["matches"] = len(matches)
		metrics.UpdateMatchesTotal(len(matches))
	} else {
		metrics.RecordStoreError()
		s.log.Warn(ctx, "reading match count for stats", logger.Error(err))
	}
	return stats
}
