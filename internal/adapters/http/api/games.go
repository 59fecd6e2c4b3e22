package api

import (
	"encoding/json"
	"net/http"

	"github.com/birostris/PadelRanking/internal/app"
)

// GamesHandler handles match listing, recording, and deletion.
type GamesHandler struct {
	deps Dependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps Dependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// HandleGetGames handles GET /data/games.
func (h *GamesHandler) HandleGetGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	games, err := h.deps.Games(r.Context())
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// addGameRequest mirrors the POST /data/add_game payload. Player slots
// accept a nick string, a numeric id, or null for an absent teammate.
type addGameRequest struct {
	Player1   app.PlayerRef `json:"player1"`
	Player2   app.PlayerRef `json:"player2"`
	Player3   app.PlayerRef `json:"player3"`
	Player4   app.PlayerRef `json:"player4"`
	Score1    int           `json:"score1"`
	Score2    int           `json:"score2"`
	Americano bool          `json:"americano"`
}

// HandleAddGame handles POST /data/add_game. Nothing is recorded unless
// every named player resolves and the scores are admissible.
func (h *GamesHandler) HandleAddGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req addGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	refs := [4]app.PlayerRef{req.Player1, req.Player2, req.Player3, req.Player4}
	m, err := h.deps.AddGame(r.Context(), refs, req.Score1, req.Score2, req.Americano)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": m.ID})
}

// deleteGameRequest mirrors the POST /data/delete_game payload.
type deleteGameRequest struct {
	GameID int64  `json:"game_id"`
	Secret string `json:"pwd"`
}

// HandleDeleteGame handles POST /data/delete_game. The shared secret must
// match the configured value; nothing is deleted otherwise.
func (h *GamesHandler) HandleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req deleteGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.DeleteGame(r.Context(), req.GameID, req.Secret); err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": req.GameID})
}
