package handler

import (
	"encoding/json"
	"net/http"

	"product-catalog/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Int("status", status).Msg("failed to encode response")
	}
}

// writeFailure writes an unsuccessful envelope. The error detail is only
// included when err is not nil.
func writeFailure(w http.ResponseWriter, status int, message string, err error, logger zerolog.Logger) {
	body := model.Envelope{Success: false, Message: message}
	if err != nil {
		body.Error = err.Error()
	}
	logEvent(logger, status).Err(err).Str("message", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, body, logger)
}

// writeMessage writes a bare message body.
func writeMessage(w http.ResponseWriter, status int, message string, err error, logger zerolog.Logger) {
	body := model.MessageResponse{Message: message}
	if err != nil {
		body.Error = err.Error()
	}
	logEvent(logger, status).Err(err).Str("message", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, body, logger)
}

func logEvent(logger zerolog.Logger, status int) *zerolog.Event {
	if status >= http.StatusInternalServerError {
		return logger.Error()
	}
	return logger.Warn()
}

// Health handles GET /health requests.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
