package simulate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/birostris/PadelRanking/pkg/logger"
)

// Run executes a complete simulation: health check, roster creation, match
// submission, then a leaderboard fetch with sanity checks.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting ranking simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.NumPlayers),
		logger.Int("games", config.NumGames),
		logger.Int("workers", config.Workers),
	)

	client := newHTTPClient(config.Timeout)

	if err := checkServiceHealth(ctx, config, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	nicks := generateNicks(config.NumPlayers)
	if err := createPlayers(ctx, config, client, nicks, stats); err != nil {
		return fmt.Errorf("roster creation failed: %w", err)
	}

	games := generateGames(config, nicks)
	stats.GamesGenerated = len(games)
	if err := submitGames(ctx, config, client, games, stats); err != nil {
		return fmt.Errorf("game submission failed: %w", err)
	}

	rows, err := fetchRankings(ctx, config, client, "")
	if err != nil {
		return fmt.Errorf("ranking retrieval failed: %w", err)
	}
	stats.RankingRows = len(rows)

	if err := verifyRankings(rows); err != nil {
		return fmt.Errorf("ranking verification failed: %w", err)
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "simulation completed",
		logger.Int("playersCreated", stats.PlayersCreated),
		logger.Int("gamesAccepted", stats.GamesAccepted),
		logger.Int("gamesFailed", stats.GamesFailed),
		logger.Int("rankingRows", stats.RankingRows),
		logger.String("duration", stats.Duration.String()),
	)
	return nil
}

// checkServiceHealth verifies the service answers on /healthz.
func checkServiceHealth(ctx context.Context, config *Config, client *httpClient) error {
	status, _, err := client.get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("connecting to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected health status %d", status)
	}
	return nil
}

// verifyRankings checks the structural leaderboard invariants: exposed
// skill never increases down the board, positions start at 1 and never
// skip past the row index, and rows sharing a skill share a position.
func verifyRankings(rows []rankingRow) error {
	for i, row := range rows {
		if row.Position < 1 || row.Position > i+1 {
			return fmt.Errorf("row %d (%s) has position %d", i, row.Name, row.Position)
		}
		if i == 0 {
			continue
		}
		prev := rows[i-1]
		if row.TrueSkill.Ranking > prev.TrueSkill.Ranking {
			return fmt.Errorf("row %d (%s) outranks the row above it", i, row.Name)
		}
		if row.Position < prev.Position {
			return fmt.Errorf("row %d (%s) position decreased", i, row.Name)
		}
	}
	return nil
}
