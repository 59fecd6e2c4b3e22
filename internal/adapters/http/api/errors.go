package api

import (
	"errors"
	"net/http"

	"github.com/birostris/PadelRanking/internal/adapters/repository"
	"github.com/birostris/PadelRanking/internal/app"
)

// Sentinel kinds for API errors.
var ErrBadRequest = errors.New("bad request")

// statusFor translates service errors into an HTTP status and a stable
// machine-readable code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, repository.ErrPlayerNotFound):
		return http.StatusNotFound, "unknown_player"
	case errors.Is(err, repository.ErrMatchNotFound):
		return http.StatusNotFound, "unknown_match"
	case errors.Is(err, repository.ErrDuplicateNick):
		return http.StatusConflict, "duplicate_nick"
	case errors.Is(err, app.ErrDegenerateMatch),
		errors.Is(err, app.ErrLoneTeammate),
		errors.Is(err, app.ErrEmptySlot),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
