package http

import (
	"errors"
	"net/http"

	"conversational-recommendation/internal/recommend"
	"conversational-recommendation/internal/recommend/repository"
	pkgErrors "conversational-recommendation/pkg/errors"
)

// mapError translates domain/use-case errors into HTTP errors. Anything
// not explicitly mapped is an internal error; the caller never sees raw
// collaborator detail.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, recommend.ErrSessionIDRequired),
		errors.Is(err, recommend.ErrInvalidRequest):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrUnavailable):
		return pkgErrors.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	default:
		return pkgErrors.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
