package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/letterplace/internal/httpserver/deps"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz answers 200 once the store responds to a ping, 503 otherwise.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			writeJSON(w, d.Logger, http.StatusServiceUnavailable, readyzResponse{Ready: false, Error: "store unavailable"})
			return
		}

		writeJSON(w, d.Logger, http.StatusOK, readyzResponse{Ready: true})
	}
}
