package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8787"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	LogFile           string // path to a rotating log file (optional, empty = console only)
	LogFileMaxSizeMB  int    // rotate after this size (default: 50)
	LogFileMaxBackups int    // rotated files to keep (default: 3)
	LogFileMaxAgeDays int    // days to keep rotated files (default: 28)

	// Bookmarks backend
	BackendURL           string        // base URL of the bookmarks backend (ex: https://api.domain.ext)
	BookmarksTable       string        // table synchronized by the engine (default: "bookmarks")
	HTTPTimeout          time.Duration // per-request timeout against the backend (default: 10s)
	ResyncInterval       time.Duration // safety-net full refetch interval (default: 1h, 0 = disabled)
	FeedPingInterval     time.Duration // websocket keepalive ping interval (default: 30s)
	FeedHandshakeTimeout time.Duration // websocket dial handshake timeout (default: 10s)
	FeedMaxBackoff       time.Duration // max wait between feed reconnect attempts (default: 30s)

	// Session
	ProvidersFile      string        // path to providers.yaml (optional, empty = sign-in disabled)
	TokenRefreshMargin time.Duration // refresh the access token this long before expiry (default: 2m)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	RateBurst        int // rate limit burst per client IP on mutating routes (default: 20)
	RateRefillPerMin int // rate limit refill per minute per client IP (default: 60)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MARKS_LISTEN_PORT", ":8787"),
		ShutdownTimeout: mustDuration("MARKS_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:          getenv("MARKS_LOG_LEVEL", "info"),
		PrettyLog:         mustBool("MARKS_PRETTY_LOG", true),
		LogFile:           getenv("MARKS_LOG_FILE", ""), // Optional, empty = console only
		LogFileMaxSizeMB:  getenvInt("MARKS_LOG_FILE_MAX_SIZE_MB", 50),
		LogFileMaxBackups: getenvInt("MARKS_LOG_FILE_MAX_BACKUPS", 3),
		LogFileMaxAgeDays: getenvInt("MARKS_LOG_FILE_MAX_AGE_DAYS", 28),

		// Bookmarks backend
		BackendURL:           strings.TrimSuffix(requireEnv("MARKS_BACKEND_URL"), "/"),
		BookmarksTable:       getenv("MARKS_BOOKMARKS_TABLE", "bookmarks"),
		HTTPTimeout:          mustDuration("MARKS_HTTP_TIMEOUT", 10*time.Second),
		ResyncInterval:       mustDuration("MARKS_RESYNC_INTERVAL", time.Hour),
		FeedPingInterval:     mustDuration("MARKS_FEED_PING_INTERVAL", 30*time.Second),
		FeedHandshakeTimeout: mustDuration("MARKS_FEED_HANDSHAKE_TIMEOUT", 10*time.Second),
		FeedMaxBackoff:       mustDuration("MARKS_FEED_MAX_BACKOFF", 30*time.Second),

		// Session
		ProvidersFile:      getenv("MARKS_PROVIDERS_FILE", ""), // Optional, empty = sign-in disabled
		TokenRefreshMargin: mustDuration("MARKS_TOKEN_REFRESH_MARGIN", 2*time.Minute),

		// Redis settings
		RedisAddr:             requireEnv("MARKS_REDIS_ADDR"),
		RedisUser:             getenv("MARKS_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("MARKS_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("MARKS_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("MARKS_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("MARKS_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("MARKS_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("MARKS_TRUST_PROXY", false),

		RateBurst:        getenvInt("MARKS_RATE_BURST", 20),
		RateRefillPerMin: getenvInt("MARKS_RATE_REFILL_PER_MIN", 60),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: MARKS_REDIS_PASSWORD is required when MARKS_REDIS_PASSWORD_REQUIRED=true")
	}

	// The backend URL must be absolute: it seeds both the HTTP client and
	// the websocket feed (http -> ws, https -> wss).
	if !strings.HasPrefix(cfg.BackendURL, "http://") && !strings.HasPrefix(cfg.BackendURL, "https://") {
		panic(fmt.Sprintf("❌ FATAL: MARKS_BACKEND_URL must be an absolute http(s) URL, got %q", cfg.BackendURL))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
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

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
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
