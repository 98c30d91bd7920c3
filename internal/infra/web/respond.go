package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"toy-admin/internal/domain"
	"toy-admin/internal/infra/logging"
)

// statusClientClosedRequest is nginx's code for a client that hung up.
const statusClientClosedRequest = 499

// envelope is the response shape every dashboard endpoint returns.
type envelope struct {
	Data    any       `json:"data"`
	Error   *apiError `json:"error"`
	Success bool      `json:"success"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data, Success: true})
}

func writeFail(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, envelope{Error: &apiError{Code: code, Message: msg}})
}

// writeError maps domain errors to HTTP statuses. Unknown errors are logged
// and reported as 500 without leaking details.
func writeError(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeFail(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeFail(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	case errors.Is(err, domain.ErrNotFound):
		writeFail(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrDuplicateKey):
		writeFail(w, http.StatusConflict, "duplicate_key", "activation code already assigned")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeFail(w, http.StatusConflict, "already_exists", "already exists")
	case errors.Is(err, domain.ErrCodeSpaceExhausted):
		logging.With(r.Context(), logger).Error().Err(err).Msg("activation code space exhausted")
		writeFail(w, http.StatusServiceUnavailable, "code_space_exhausted", "no free activation code available")
	case errors.Is(err, domain.ErrStoreUnavailable):
		logging.With(r.Context(), logger).Error().Err(err).Msg("store unavailable")
		w.Header().Set("Retry-After", "1")
		writeFail(w, http.StatusServiceUnavailable, "store_unavailable", "storage temporarily unavailable")
	case errors.Is(err, context.Canceled):
		logging.With(r.Context(), logger).Debug().Err(err).Msg("client canceled request")
		writeFail(w, statusClientClosedRequest, "canceled", "request canceled")
	default:
		logging.With(r.Context(), logger).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeFail(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
