package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/letterplace/internal/httpserver/deps"
)

type componentStatus struct {
	OK      bool   `json:"ok"`
	Backend string `json:"backend,omitempty"`
	Entries *int   `json:"entries,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Error   string `json:"error,omitempty"`

	// LastWrite is reported by backends that track it (memory).
	LastWrite *time.Time `json:"last_write,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the store and the crawl pipeline.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store": checkStore(r.Context(), d),
			"crawler": {
				OK:   d.Fetcher != nil && d.Extractor != nil,
				Mode: "server-authoritative",
			},
		}

		writeJSON(w, d.Logger, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if s, ok := components["store"]; ok && !s.OK {
		return "critical" // nothing can be read or written
	}
	if c, ok := components["crawler"]; ok && !c.OK {
		return "degraded" // listing works, adds do not
	}
	return "ok"
}

func checkStore(parent context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{OK: false, Backend: d.StoreKind, Error: "store not initialized"}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{OK: false, Backend: d.StoreKind, Error: "unreachable"}
	}

	n, err := d.Store.Count(ctx)
	if err != nil {
		return componentStatus{OK: false, Backend: d.StoreKind, Error: "count failed"}
	}

	status := componentStatus{OK: true, Backend: d.StoreKind, Entries: &n}
	if lw, ok := d.Store.(lastWriter); ok {
		if t := lw.LastWrite(); !t.IsZero() {
			status.LastWrite = &t
		}
	}
	return status
}

type lastWriter interface {
	LastWrite() time.Time
}
