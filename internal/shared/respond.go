package shared

import (
	"errors"
	"net/http"

	"github.com/stockwise/stockwise/internal/platform/httpx"
)

// RespondError converts domain errors into the JSON envelope. Business-rule
// violations (terminal document, insufficient stock, duplicates) are 400 per
// the API contract; optimistic-lock conflicts are 409 so clients can retry.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrTerminalDocument),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrReferenced):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		httpx.Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		httpx.Fail(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrStaleVersion):
		httpx.Fail(w, http.StatusConflict, err.Error())
	default:
		httpx.Fail(w, http.StatusInternalServerError, err.Error())
	}
}
