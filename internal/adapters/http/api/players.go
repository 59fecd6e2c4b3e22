package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// PlayersHandler handles player listing and registration.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// playerResponse mirrors the stored player shape.
type playerResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Nick      string `json:"nick"`
}

// HandleGetPlayers handles GET /data/players.
func (h *PlayersHandler) HandleGetPlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	players, err := h.deps.Players(r.Context())
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	out := make([]playerResponse, len(players))
	for i, p := range players {
		out[i] = playerResponse{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Nick: p.Nick}
	}
	writeJSON(w, http.StatusOK, out)
}

// addPlayerRequest mirrors the POST /data/add_player payload.
type addPlayerRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Nick      string `json:"nick"`
}

func (p addPlayerRequest) validate() error {
	if strings.TrimSpace(p.Nick) == "" {
		return errors.New("missing nick")
	}
	return nil
}

// HandleAddPlayer handles POST /data/add_player.
func (h *PlayersHandler) HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req addPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	p, err := h.deps.AddPlayer(r.Context(), req.FirstName, req.LastName, req.Nick)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusCreated, playerResponse{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Nick: p.Nick})
}
