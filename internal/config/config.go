package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Redis holds the connection and retry settings shared by both binaries.
type Redis struct {
	Addr             string        // ex: "localhost:6379"
	User             string        // optional
	Password         string        // optional
	PasswordRequired bool          // true => require password, false => allow empty password
	DB               int           // Redis DB number
	DialTimeout      time.Duration // ex: 5s
	ReadTimeout      time.Duration // ex: 3s
	WriteTimeout     time.Duration // ex: 3s
	MaxWait          time.Duration // max wait between retries (ex: 10s)
	PingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	PoolSize         int           // connection pool size
	ConnectTimeout   time.Duration // total time to retry connecting (ex: 30s)
	RetryInterval    time.Duration // initial wait between retries (ex: 2s, grows exponentially)
	WarnThreshold    int           // warn after this many attempts
}

// Common holds the settings both binaries read.
type Common struct {
	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store string // "redis" | "memory"
	Redis Redis  // used when Store == "redis"

	FetchTimeout  time.Duration // whole-request timeout when fetching pages
	FetchMaxBytes int64         // body bytes read before truncating
	UserAgent     string        // sent when fetching pages

	DefaultGroup  string   // group for adds made without an active filter
	Groups        []string // groups offered to users
	PreferOGImage bool     // true => og:image before twitter:image
}

// Config is the server configuration.
type Config struct {
	Common

	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	AllowedCIDRS []string // optional, restrict health/metrics to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigin   string   // Access-Control-Allow-Origin value

	RateBurst  int // crawl requests allowed in a burst per client IP
	RatePerMin int // crawl tokens refilled per minute per client IP

	CensusInterval time.Duration // period of the per-group entry count refresh
}

// Client is the CLI configuration.
type Client struct {
	Common

	AddMode       string        // "client" | "server"
	Endpoint      string        // remote add endpoint, required in server mode
	PrefsFile     string        // path to the preference file
	WatchDebounce time.Duration // debounce window of the preference watcher
}

// Load reads the server configuration from the environment.
func Load() *Config {
	cfg := &Config{
		Common: loadCommon(),

		ListenPort:      getenv("LETTERPLACE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LETTERPLACE_SHUTDOWN_TIMEOUT", 5*time.Second),

		AllowedCIDRS: parseAllowedIPs(getenv("LETTERPLACE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LETTERPLACE_TRUST_PROXY", false),
		CORSOrigin:   getenv("LETTERPLACE_CORS_ORIGIN", "*"),

		RateBurst:  getenvInt("LETTERPLACE_RATE_BURST", 10),
		RatePerMin: getenvInt("LETTERPLACE_RATE_PER_MIN", 30),

		CensusInterval: mustDuration("LETTERPLACE_CENSUS_INTERVAL", 5*time.Minute),
	}

	debugDump("cfg", cfg.LogLevel, func() any {
		cfgCopy := *cfg
		cfgCopy.Redis = redacted(cfg.Redis)
		return cfgCopy
	})

	return cfg
}

// LoadClient reads the CLI configuration from the environment. prefsDefault
// is used when LETTERPLACE_PREFS_FILE is unset.
func LoadClient(prefsDefault string) *Client {
	cfg := &Client{
		Common: loadCommon(),

		AddMode:       getenv("LETTERPLACE_ADD_MODE", "client"),
		Endpoint:      getenv("LETTERPLACE_ENDPOINT", ""),
		PrefsFile:     getenv("LETTERPLACE_PREFS_FILE", prefsDefault),
		WatchDebounce: mustDuration("LETTERPLACE_WATCH_DEBOUNCE", 300*time.Millisecond),
	}

	debugDump("client cfg", cfg.LogLevel, func() any {
		cfgCopy := *cfg
		cfgCopy.Redis = redacted(cfg.Redis)
		return cfgCopy
	})

	return cfg
}

func loadCommon() Common {
	c := Common{
		LogLevel:  getenv("LETTERPLACE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LETTERPLACE_PRETTY_LOG", true),

		Store: strings.ToLower(getenv("LETTERPLACE_STORE", StoreRedis)),

		FetchTimeout:  mustDuration("LETTERPLACE_FETCH_TIMEOUT", 10*time.Second),
		FetchMaxBytes: int64(getenvInt("LETTERPLACE_FETCH_MAX_BYTES", 5<<20)),
		UserAgent:     getenv("LETTERPLACE_USER_AGENT", ""),

		DefaultGroup:  getenv("LETTERPLACE_DEFAULT_GROUP", "🌎 General"),
		Groups:        splitAndTrim(getenv("LETTERPLACE_GROUPS", "🌎 General,📺 Watch,🧪 Learn,🎧 Listen")),
		PreferOGImage: mustBool("LETTERPLACE_PREFER_OG_IMAGE", false),
	}

	switch c.Store {
	case StoreRedis:
		c.Redis = loadRedis()
	case StoreMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: LETTERPLACE_STORE must be %q or %q, got %q", StoreRedis, StoreMemory, c.Store))
	}

	return c
}

func loadRedis() Redis {
	r := Redis{
		Addr:             requireEnv("LETTERPLACE_REDIS_ADDR"),
		User:             getenv("LETTERPLACE_REDIS_USERNAME", ""),
		PasswordRequired: mustBool("LETTERPLACE_REDIS_PASSWORD_REQUIRED", false),
		Password:         getenv("LETTERPLACE_REDIS_PASSWORD", ""),
		DB:               getenvInt("LETTERPLACE_REDIS_DB", 0),
		DialTimeout:      mustDuration("LETTERPLACE_REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:      mustDuration("LETTERPLACE_REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout:     mustDuration("LETTERPLACE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		MaxWait:          mustDuration("LETTERPLACE_REDIS_MAX_WAIT", 10*time.Second),
		PingTimeout:      mustDuration("LETTERPLACE_REDIS_PING_TIMEOUT", 5*time.Second),
		PoolSize:         getenvInt("LETTERPLACE_REDIS_POOL_SIZE", 10),
		ConnectTimeout:   mustDuration("LETTERPLACE_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RetryInterval:    mustDuration("LETTERPLACE_REDIS_RETRY_INTERVAL", 2*time.Second),
		WarnThreshold:    getenvInt("LETTERPLACE_REDIS_WARN_THRESHOLD", 3),
	}

	if r.PasswordRequired && r.Password == "" {
		panic("❌ FATAL: LETTERPLACE_REDIS_PASSWORD is required when LETTERPLACE_REDIS_PASSWORD_REQUIRED=true")
	}

	return r
}

// Log config only in debug mode with redacted sensitive fields
func debugDump(label, level string, redactedCopy func() any) {
	if level == "debug" {
		log.Printf("[DEBUG] %s: %+v\n", label, redactedCopy())
	}
}

func redacted(r Redis) Redis {
	if r.Password != "" {
		r.Password = "***REDACTED***"
	}
	if r.User != "" {
		r.User = "***REDACTED***"
	}
	return r
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
