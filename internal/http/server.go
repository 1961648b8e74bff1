package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ledgerdash/internal/cache"
	"ledgerdash/internal/core"
	"ledgerdash/internal/ledger"
	"ledgerdash/internal/log"
	"ledgerdash/internal/middleware/ratelimit"
	"ledgerdash/internal/middleware/security"
	"ledgerdash/internal/middleware/trace"
	"ledgerdash/internal/services"
)

// Dashboard is what the API needs from the ledger controller
type Dashboard interface {
	Snapshot() services.Snapshot
	Index() ledger.Index
	Generation() uint64
	Ready() bool
	Vocabulary() core.Vocabulary
	Location() *time.Location
	ApplyFilter(ctx context.Context, start, end, team, employee string) error
	ToggleCategory(ctx context.Context, label string) error
	ToggleAllCategories(ctx context.Context)
	SortBy(ctx context.Context, column string) error
	Query(ctx context.Context, q services.Query) (services.QueryResult, error)
	Reload(ctx context.Context) (int, error)
}

// Config holds the server settings
type Config struct {
	Addr string
	// CacheSize and CacheTTL bound the stateless query cache
	CacheSize       int
	CacheTTL        time.Duration
	CleanupInterval time.Duration
	RateLimit       ratelimit.Config
	Logger          *log.Logger
}

// Server is the JSON API over one dashboard
type Server struct {
	http.Server
	dashboard Dashboard
	logger    *log.Logger
	startedAt time.Time

	queryCache   *cache.LRUCache[queryResponse]
	cacheManager *cache.Manager
	limiter      *ratelimit.Limiter
	tracer       *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(dashboard Dashboard, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 100
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 10 * time.Minute
	}

	logger := cfg.Logger.WithComponent(log.ComponentHTTP)
	proxies := security.NewProxyResolver()

	s := &Server{
		dashboard:    dashboard,
		logger:       logger,
		startedAt:    time.Now(),
		queryCache:   cache.NewLRUCache[queryResponse](cfg.CacheSize, cfg.CacheTTL),
		cacheManager: cache.NewManager(cfg.Logger),
		limiter:      ratelimit.NewLimiter(cfg.RateLimit),
		tracer:       trace.NewMiddleware(proxies.ClientIP, logger),
	}
	s.cacheManager.Register(s.queryCache)
	s.cacheManager.StartCleanup(cfg.CleanupInterval)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /api/filter", s.handleFilter)
	mux.HandleFunc("GET /api/teams", s.handleTeams)
	mux.HandleFunc("GET /api/employees", s.handleEmployees)
	mux.HandleFunc("POST /api/categories/toggle", s.handleToggleCategory)
	mux.HandleFunc("POST /api/categories/toggle-all", s.handleToggleAll)
	mux.HandleFunc("POST /api/sort", s.handleSort)
	mux.HandleFunc("GET /api/query", s.handleQuery)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(proxies.ClientIP, s.handleRateLimited, http.MethodPost)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
