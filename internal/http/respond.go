package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"diaria/internal/core"
	"diaria/internal/storage"
)

const (
	codeBadRequest    = "bad_request"
	codeUnauthorized  = "unauthorized"
	codeNotFound      = "not_found"
	codeConflict      = "conflict"
	codeUnprocessable = "unprocessable"
	codeRateLimited   = "rate_limited"
	codeInternal      = "internal_error"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// mapError translates service and storage errors to HTTP responses.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "resource not found")
	case errors.Is(err, storage.ErrEmailTaken):
		writeError(w, http.StatusConflict, codeConflict, "email already registered")
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, codeUnprocessable, err.Error())
	default:
		slog.Error("Request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidDate,
		core.ErrInvalidAmount,
		core.ErrNegativeAmount,
		core.ErrEmptyDayOfWeek,
		core.ErrEmptyUserID,
		core.ErrEmptyEmail,
		core.ErrEmptyName,
		core.ErrPasswordTooShort,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
