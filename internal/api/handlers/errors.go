package handlers

import (
	"errors"
	"net/http"

	"github.com/keyforge/keyforge-be/internal/errs"
)

// writeError maps sentinel errors to HTTP statuses so every failure reaches
// the client as a stable, distinguishable reason. Unrecognized errors use
// the fallback message with a 500.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, errs.ErrUnauthorized), errors.Is(err, errs.ErrInvalidMasterPassword):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, errs.ErrMasterPasswordRequired):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, errs.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, errs.ErrAlreadyExists), errors.Is(err, errs.ErrMasterPasswordSet):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, errs.ErrMasterPasswordNotSet):
		http.Error(w, err.Error(), http.StatusPreconditionFailed)
	case errors.Is(err, errs.ErrLocked):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	default:
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
