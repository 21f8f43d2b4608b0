package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/letterplace/internal/httpserver/deps"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, log logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("failed to write response", logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, status int, msg string) {
	writeJSON(w, log, status, errorResponse{Success: false, Error: msg})
}

// NotFound answers unknown API paths with a JSON error.
func NotFound(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, d.Logger, http.StatusNotFound, "no such endpoint: "+r.URL.Path)
	}
}

// MethodNotAllowed answers a known API path called with the wrong method.
func MethodNotAllowed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, d.Logger, http.StatusMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
	}
}
