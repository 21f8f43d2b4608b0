package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/letterplace/internal/httpserver/deps"
	"github.com/MrSnakeDoc/letterplace/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/letterplace/internal/httpserver/mw"
)

func init() { RegisterAPI(registerCrawl) }

func registerCrawl(r chi.Router, d deps.Deps) {
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateBurst,
		RefillPerIPPerMin: d.RatePerMin,
		MaxEntries:        10_000,
		TrustProxy:        d.TrustProxy,
		Now:               d.TimeNow,
	}))

	limited.Post("/crawl", handlers.Crawl(d))
	limited.Get("/crawl/*", handlers.CrawlPreview(d))
}
