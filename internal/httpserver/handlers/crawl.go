package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/extract"
	"github.com/MrSnakeDoc/letterplace/internal/httpserver/deps"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
	"github.com/MrSnakeDoc/letterplace/internal/metrics"
	"github.com/MrSnakeDoc/letterplace/internal/remote"
)

const maxCrawlBody = 64 << 10

// Crawl fetches a page, extracts its metadata and stores it as a new entry
// with index = collection count + 1.
func Crawl(d deps.Deps) http.HandlerFunc {
	defaultGroup := domain.GroupOrDefault("", d.DefaultGroup)

	// Count and insert run under one lock so two adds on this server never
	// share an index.
	var insertMu sync.Mutex

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req remote.AddRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCrawlBody)).Decode(&req); err != nil {
			metrics.ObserveCrawl("add", "bad_request")
			writeError(w, d.Logger, http.StatusBadRequest, "invalid JSON body")
			return
		}

		target, err := domain.ValidateHTTPURL(req.URL)
		if err != nil {
			metrics.ObserveCrawl("add", "bad_request")
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		group := strings.TrimSpace(req.Group)
		if group == "" {
			group = defaultGroup
		}

		log := d.Logger.With(logger.String("url", target), logger.String("group", group))

		start := time.Now()
		page, err := d.Fetcher.Fetch(ctx, target)
		if err != nil {
			log.Warn("crawl fetch failed", logger.Error(err))
			metrics.ObserveCrawl("add", "fetch_failed")
			writeError(w, d.Logger, http.StatusBadGateway, err.Error())
			return
		}

		rec := d.Extractor.Extract(target, page)
		metrics.CrawlDuration.Observe(time.Since(start).Seconds())
		metrics.ObserveRecord(rec)

		insertMu.Lock()
		count, err := d.Store.Count(ctx)
		if err != nil {
			insertMu.Unlock()
			log.Error("failed to count entries", logger.Error(err))
			metrics.ObserveCrawl("add", "store_failed")
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to read collection")
			return
		}
		entry, err := d.Store.Insert(ctx, domain.NewEntry(rec, count+1, group, d.Now()))
		insertMu.Unlock()
		metrics.ObserveWrite("insert", err)
		if err != nil {
			log.Error("failed to store entry", logger.Error(err))
			metrics.ObserveCrawl("add", "store_failed")
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to store entry")
			return
		}

		log.Info("entry crawled and stored",
			logger.String("id", entry.ID),
			logger.Int("index", entry.Index),
			logger.Bool("title", entry.Title != nil),
			logger.Bool("image", entry.Image != nil))
		metrics.ObserveCrawl("add", "ok")

		writeJSON(w, d.Logger, http.StatusOK, remote.AddResponse{
			Success:     true,
			ID:          entry.ID,
			URL:         entry.URL,
			Title:       entry.Title,
			Description: entry.Description,
			Image:       entry.Image,
			Index:       entry.Index,
			Group:       entry.Group,
			CreatedAt:   entry.CreatedAt,
		})
	}
}

type previewResponse struct {
	Success bool `json:"success"`
	extract.Report
}

// CrawlPreview fetches and extracts a page without storing anything. The
// target URL is the path-escaped remainder of the route.
func CrawlPreview(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := url.PathUnescape(chi.URLParam(r, "*"))
		if err != nil {
			metrics.ObserveCrawl("preview", "bad_request")
			writeError(w, d.Logger, http.StatusBadRequest, "invalid url escape")
			return
		}

		target, err := domain.ValidateHTTPURL(raw)
		if err != nil {
			metrics.ObserveCrawl("preview", "bad_request")
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		page, err := d.Fetcher.Fetch(r.Context(), target)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, r.Context().Err()) {
				status = http.StatusGatewayTimeout
			}
			metrics.ObserveCrawl("preview", "fetch_failed")
			writeError(w, d.Logger, status, err.Error())
			return
		}

		metrics.ObserveCrawl("preview", "ok")
		writeJSON(w, d.Logger, http.StatusOK, previewResponse{
			Success: true,
			Report:  d.Extractor.Inspect(target, page),
		})
	}
}
