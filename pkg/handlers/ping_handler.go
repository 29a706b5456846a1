package handlers

import (
	"log/slog"
	"net/http"
)

// Ping answers "pong" for health checks.
func Ping(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("pong")); err != nil {
			logger.Error("failed to write pong", "error", err)
		}
	}
}
