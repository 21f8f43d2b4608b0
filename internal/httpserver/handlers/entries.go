package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/httpserver/deps"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
)

type entriesResponse struct {
	Group   string         `json:"group,omitempty"`
	Count   int            `json:"count"`
	Entries []domain.Entry `json:"entries"`
}

// Entries returns the ordered view, optionally filtered by ?group=.
func Entries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := domain.Query{Group: strings.TrimSpace(r.URL.Query().Get("group"))}

		entries, err := d.Store.Query(r.Context(), q)
		if err != nil {
			d.Logger.Error("failed to query entries",
				logger.String("group", q.Group),
				logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to read collection")
			return
		}

		writeJSON(w, d.Logger, http.StatusOK, entriesResponse{
			Group:   q.Group,
			Count:   len(entries),
			Entries: entries,
		})
	}
}

type groupsResponse struct {
	Default string   `json:"default"`
	Groups  []string `json:"groups"`
}

// Groups lists the groups offered to clients.
func Groups(d deps.Deps) http.HandlerFunc {
	groups := d.Groups
	if len(groups) == 0 {
		groups = domain.DefaultGroups
	}
	resp := groupsResponse{Default: domain.GroupOrDefault("", d.DefaultGroup), Groups: groups}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.Logger, http.StatusOK, resp)
	}
}
