package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/pldash/internal/adapters/repository"
	"github.com/okian/pldash/internal/domain/aggregate"
	"github.com/okian/pldash/internal/domain/export"
	"github.com/okian/pldash/internal/domain/model"
)

// Sentinel kinds for API errors. Request validation errors wrap
// ErrBadRequest.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrMissingTeam  = fmt.Errorf("%w: missing team parameter", ErrBadRequest)
	ErrUnknownRoute = errors.New("unknown route")
)

// errorResponse mirrors the OpenAPI error schema.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classify maps pipeline errors to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrUnknownSeason):
		return http.StatusBadRequest, "unknown_season"
	case errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest, "unsupported_format"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, aggregate.ErrTeamNotInView):
		return http.StatusNotFound, "team_not_in_view"
	case errors.Is(err, model.ErrDivisionByZero):
		return http.StatusInternalServerError, "division_by_zero"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
