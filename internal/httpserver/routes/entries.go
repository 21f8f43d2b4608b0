package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/letterplace/internal/httpserver/deps"
	"github.com/MrSnakeDoc/letterplace/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerEntries) }

func registerEntries(r chi.Router, d deps.Deps) {
	r.Get("/entries", handlers.Entries(d))
	r.Get("/groups", handlers.Groups(d))
}
