// Package kernel assembles the HTTP stack: global middleware, application
// routes and the operational endpoints.
package kernel

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/bazaar/app/routes"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
	"github.com/shashiranjanraj/bazaar/pkg/reqid"
	"github.com/shashiranjanraj/bazaar/pkg/response"
	"github.com/shashiranjanraj/bazaar/pkg/router"
)

// cacheAdapter satisfies orm.Cacher with pkg/cache; wired here so the two
// packages stay decoupled.
type cacheAdapter struct{}

func (cacheAdapter) Get(key string, dest interface{}) bool { return cache.Get(key, dest) }
func (cacheAdapter) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}

// BuildRouter constructs the fully-wired router. Exposed for the server
// and for HTTP-level tests.
func BuildRouter() *router.Router {
	orm.CacheStore = cacheAdapter{}

	r := router.New()
	r.Use(
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		metrics.Middleware(),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)

	routes.RegisterAPI(r)

	r.HandleFunc("/healthz", healthz)
	r.HandleFunc("/metrics", metrics.Handler())

	return r
}

// healthz reports liveness plus database reachability.
func healthz(w http.ResponseWriter, r *http.Request) {
	if err := database.Ping(); err != nil {
		response.Error(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}
