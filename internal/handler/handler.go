package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"chatmart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	if status >= http.StatusInternalServerError {
		logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	} else {
		logger.Warn().Str("error", message).Int("status", status).Msg("handler error")
	}
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeServiceError maps a service error to a status code. Client errors keep
// their message; server errors get fallback and the detail goes to the log.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error(), logger)
	case errors.Is(err, model.ErrUnauthorised):
		writeError(w, http.StatusUnauthorized, err.Error(), logger)
	case errors.Is(err, model.ErrUpstreamAuth):
		writeError(w, http.StatusForbidden, "invalid or expired token", logger)
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMessage(err), logger)
	default:
		logger.Error().Err(err).Msg(fallback)
		writeError(w, http.StatusInternalServerError, fallback, logger)
	}
}

func notFoundMessage(err error) string {
	for _, nf := range []error{model.ErrOrderNotFound, model.ErrProductNotFound, model.ErrUserNotFound} {
		if errors.Is(err, nf) {
			return nf.Error()
		}
	}
	return model.ErrNotFound.Error()
}

// decodeJSON reads a JSON body into dst. It reports false after writing a 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, logger zerolog.Logger) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", logger)
		return false
	}
	return true
}

// int64Param parses a positive integer path parameter.
func int64Param(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// successResponse is the generic acknowledgement body.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
