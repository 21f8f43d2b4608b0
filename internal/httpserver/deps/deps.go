package deps

import (
	"time"

	"github.com/MrSnakeDoc/letterplace/internal/extract"
	"github.com/MrSnakeDoc/letterplace/internal/fetch"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
	"github.com/MrSnakeDoc/letterplace/internal/store"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time   // for testing, defaults to time.Now
	AllowedCIDRS []string           // IPs allowed to access infra/readyz/metrics endpoints
	TrustProxy   bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigin   string             // Access-Control-Allow-Origin value
	RateBurst    int                // crawl burst per client IP
	RatePerMin   int                // crawl refill per minute per client IP
	Store        store.Store        // entry collection
	StoreKind    string             // "redis" | "memory", reported by /infra
	Fetcher      fetch.Fetcher      // page fetcher used by the crawl endpoints
	Extractor    *extract.Extractor // metadata extractor
	DefaultGroup string             // group for adds without one
	Groups       []string           // groups offered to clients
}

// Now returns d.TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
