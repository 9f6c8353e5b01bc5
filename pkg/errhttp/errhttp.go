// Package errhttp maps error kinds to HTTP status codes.
// Service errors wrap the pkg/apperr kinds, so this package never needs to
// know individual domain sentinels.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/auctionhouse/pkg/apperr"
	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/httpx"
)

const (
	msgUnavailable = "service temporarily unavailable"
	msgInternal    = "internal server error"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// 5xx responses carry a generic message; the cause belongs in logs.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	msg := err.Error()
	switch {
	case status == http.StatusServiceUnavailable:
		msg = msgUnavailable
	case status >= http.StatusInternalServerError:
		msg = msgInternal
	}
	httpx.JSONError(w, status, msg)
}

// Status exposes the mapping for callers that log before writing.
func Status(err error) int {
	return mapErrorToStatus(err)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrActorNotFound):
		return http.StatusUnauthorized // 401
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden // 403
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict // 409
	case errors.Is(err, apperr.ErrDependency):
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500, includes apperr.ErrInvariant
	}
}
