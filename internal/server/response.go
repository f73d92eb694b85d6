package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/omarshaarawi/courtside/internal/api/fantasy"
	"github.com/omarshaarawi/courtside/internal/directory"
	"github.com/omarshaarawi/courtside/internal/reconcile"
	"github.com/omarshaarawi/courtside/internal/roster"
	"github.com/omarshaarawi/courtside/internal/session"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

type dataResponse struct {
	Data any `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func success(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, dataResponse{Data: data})
}

func created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, dataResponse{Data: data})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    status,
	})
}

func badRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, err)
}

// fail maps domain errors onto HTTP statuses. Anything unrecognised is a 500.
func fail(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, roster.ErrCapabilityMismatch),
		errors.Is(err, roster.ErrDuplicatePlayer),
		errors.Is(err, roster.ErrInvalidSlot),
		errors.Is(err, reconcile.ErrConflictingTransaction),
		errors.Is(err, reconcile.ErrRosterSizeMismatch),
		errors.Is(err, session.ErrInvalidGameweek),
		errors.Is(err, session.ErrNegativeBudget):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrIncompleteRoster),
		errors.Is(err, session.ErrNoAnalysis),
		errors.Is(err, session.ErrSuperseded),
		errors.Is(err, session.ErrNoSuchProposal):
		return http.StatusConflict
	case errors.Is(err, directory.ErrUnknownPlayer),
		errors.Is(err, session.ErrUnknownSession):
		return http.StatusNotFound
	case errors.Is(err, fantasy.ErrServiceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
