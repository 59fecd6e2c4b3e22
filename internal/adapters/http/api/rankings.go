package api

import "net/http"

// RankingsHandler handles leaderboard requests.
type RankingsHandler struct {
	deps Dependencies
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps Dependencies) *RankingsHandler {
	return &RankingsHandler{deps: deps}
}

// HandleGetRankings handles GET /data/rankings?filter=singles|doubles.
// An absent or empty filter includes both arities. The full match history
// is replayed per request, so the response always reflects the stored log.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	selector := r.URL.Query().Get("filter")
	entries, err := h.deps.Standings(r.Context(), selector)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
