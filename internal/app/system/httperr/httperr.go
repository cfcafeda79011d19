// Package httperr writes JSON error responses and logs the underlying cause.
//
// Handlers hand it the internal error plus a safe, user-facing message; the
// internal detail only reaches the zap log, never the response body.
package httperr

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Logger pairs a zap logger with the response helpers so handlers don't
// repeat the log-then-respond dance at every call site.
type Logger struct {
	log *zap.Logger
}

// NewLogger constructs an error Logger.
func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log}
}

type errBody struct {
	Error string `json:"error"`
}

// ServerError logs err at error level and responds 500 with the safe message.
func (l *Logger) ServerError(w http.ResponseWriter, r *http.Request, op string, err error, msg string) {
	l.log.Error(op,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	write(w, http.StatusInternalServerError, msg)
}

// Forbidden responds 403. Access denials leak no partial data.
func (l *Logger) Forbidden(w http.ResponseWriter, msg string) {
	write(w, http.StatusForbidden, msg)
}

// NotFound responds 404.
func (l *Logger) NotFound(w http.ResponseWriter, msg string) {
	write(w, http.StatusNotFound, msg)
}

// BadRequest responds 400.
func (l *Logger) BadRequest(w http.ResponseWriter, msg string) {
	write(w, http.StatusBadRequest, msg)
}

// Unauthorized responds 401.
func (l *Logger) Unauthorized(w http.ResponseWriter, msg string) {
	write(w, http.StatusUnauthorized, msg)
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func write(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errBody{Error: msg})
}
