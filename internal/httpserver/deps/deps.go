package deps

import (
	"time"

	"github.com/MrSnakeDoc/marks/internal/engine"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/session"
	"github.com/redis/go-redis/v9"
)

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Version          string
	Commit           string
	BuildDate        string
	GoVersion        string
	AllowedHosts     []string         // Host headers allowed to access the server
	AllowedCIDRS     []string         // IPs allowed to access healthz/readyz endpoints
	TrustProxy       bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RedisClient      *redis.Client    // Redis client connection
	Engine           *engine.Engine   // Bookmark sync engine
	Session          *session.Session // Identity session
	BackendURL       string           // Bookmarks backend base URL
	SignInEnabled    bool             // false when no auth providers are configured
	RateBurst        int              // Token bucket burst for mutation endpoints
	RateRefillPerMin int              // Token bucket refill rate per IP per minute
}
