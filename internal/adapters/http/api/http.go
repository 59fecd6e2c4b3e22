// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/birostris/PadelRanking/internal/app"
	"github.com/birostris/PadelRanking/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Standings(ctx context.Context, selector string) ([]app.RankingEntry, error)
	Players(ctx context.Context) ([]model.Player, error)
	Games(ctx context.Context) ([]app.GameView, error)
	AddPlayer(ctx context.Context, firstName, lastName, nick string) (model.Player, error)
	AddGame(ctx context.Context, refs [4]app.PlayerRef, score1, score2 int, americano bool) (model.Match, error)
	DeleteGame(ctx context.Context, id int64, secret string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	rankingsHandler *RankingsHandler
	playersHandler  *PlayersHandler
	gamesHandler    *GamesHandler
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		rankingsHandler: NewRankingsHandler(deps),
		playersHandler:  NewPlayersHandler(deps),
		gamesHandler:    NewGamesHandler(deps),
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/data/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/data/players", MetricsMiddleware(s.playersHandler.HandleGetPlayers, "players"))
	mux.HandleFunc("/data/games", MetricsMiddleware(s.gamesHandler.HandleGetGames, "games"))
	mux.HandleFunc("/data/add_player", MetricsMiddleware(s.playersHandler.HandleAddPlayer, "add_player"))
	mux.HandleFunc("/data/add_game", MetricsMiddleware(s.gamesHandler.HandleAddGame, "add_game"))
	mux.HandleFunc("/data/delete_game", MetricsMiddleware(s.gamesHandler.HandleDeleteGame, "delete_game"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
