package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"timeshare/internal/apperr"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Retryable marks conflicts caused by a concurrent write; reloading and retrying may succeed.
	Retryable bool `json:"retryable,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeErrorEnvelope(w, status, APIError{Code: code, Message: message})
}

func WriteRetryableError(w http.ResponseWriter, status int, code, message string) {
	writeErrorEnvelope(w, status, APIError{Code: code, Message: message, Retryable: true})
}

func writeErrorEnvelope(w http.ResponseWriter, status int, e APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{Error: e})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RequireUser writes 401 and returns false when the request is anonymous.
func RequireUser(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	id := IdentityFromContext(r.Context())
	if !id.Authenticated() {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "you must be logged in")
		return id, false
	}
	return id, true
}

// WriteAppError maps workflow errors to status codes. Unknown errors are datastore or
// programming failures: the raw message is only shown outside prod.
func WriteAppError(w http.ResponseWriter, err error, exposeInternal bool) {
	var verr apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		code := verr.Code
		if code == "" {
			code = "VALIDATION_FAILED"
		}
		WriteError(w, http.StatusBadRequest, code, verr.Message)
	case errors.Is(err, apperr.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, apperr.ErrConflict):
		WriteRetryableError(w, http.StatusConflict, "STATUS_CONFLICT", err.Error())
	case errors.Is(err, apperr.ErrInvalidTransition):
		WriteError(w, http.StatusConflict, "INVALID_STATE_TRANSITION", err.Error())
	case errors.Is(err, apperr.ErrAlreadyExists):
		WriteError(w, http.StatusConflict, "ALREADY_EXISTS", err.Error())
	default:
		if exposeInternal {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

// Fail writes err via WriteAppError and logs it when it is not a client error.
func Fail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, exposeInternal bool) {
	if isClientError(err) {
		WriteAppError(w, err, exposeInternal)
		return
	}
	if logger != nil {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Any("error", err),
		)
	}
	WriteAppError(w, err, exposeInternal)
}

func isClientError(err error) bool {
	var verr apperr.ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, apperr.ErrNotFound) ||
		errors.Is(err, apperr.ErrForbidden) ||
		errors.Is(err, apperr.ErrConflict) ||
		errors.Is(err, apperr.ErrInvalidTransition) ||
		errors.Is(err, apperr.ErrAlreadyExists)
}
