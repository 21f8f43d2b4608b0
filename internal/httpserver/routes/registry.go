package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/letterplace/internal/httpserver/deps"
	"github.com/MrSnakeDoc/letterplace/internal/httpserver/handlers"
)

// APIPrefix is where the JSON API is mounted.
const APIPrefix = "/api"

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var (
	rootRoutes []entry
	apiRoutes  []entry
)

// Register a root-level registrar (probes, metrics) with optional
// per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	rootRoutes = append(rootRoutes, entry{reg: reg, mws: mws})
}

// RegisterAPI adds a registrar mounted under APIPrefix. Paths are relative
// to the prefix.
func RegisterAPI(reg Registrar, mws ...Middleware) {
	apiRoutes = append(apiRoutes, entry{reg: reg, mws: mws})
}

// Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps) {
	apply(r, d, rootRoutes)

	r.Route(APIPrefix, func(api chi.Router) {
		// Unknown API paths answer in the same JSON shape as failed calls.
		api.NotFound(handlers.NotFound(d))
		api.MethodNotAllowed(handlers.MethodNotAllowed(d))
		apply(api, d, apiRoutes)
	})
}

func apply(r chi.Router, d deps.Deps, entries []entry) {
	for _, e := range entries {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		e.reg(r.With(e.mws...), d)
	}
}
