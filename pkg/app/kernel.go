package app

// pkg/app/kernel.go builds the http.Handler from the Application config.
// Project routes are injected through Routes; nothing here imports them.

import (
	"net/http"

	"github.com/shashiranjanraj/reqscope/config"
	"github.com/shashiranjanraj/reqscope/pkg/logger"
	"github.com/shashiranjanraj/reqscope/pkg/metrics"
	"github.com/shashiranjanraj/reqscope/pkg/middleware"
	"github.com/shashiranjanraj/reqscope/pkg/pipeline"
	"github.com/shashiranjanraj/reqscope/pkg/rejection"
	"github.com/shashiranjanraj/reqscope/pkg/router"
)

// Router builds the routing pipeline: global middleware plus every route
// callback. Rejections are turned into JSON replies by rejection.Handle.
func (a *Application) Router() *router.Router {
	r := router.New(rejection.Handle)

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics, for accurate total latency
	//  2. Recovery, turns panics into UNHANDLED_REJECTION replies
	//  3. Logger, logs request_id from context
	//  4. Rate limiter, only when RATE_LIMIT > 0
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery(r.Reject))
	r.Use(middleware.Logger)
	if limit := config.RateLimit(); limit > 0 {
		r.Use(middleware.RateLimit(limit, config.RateWindow(), r.Reject))
	}

	for _, fn := range a.routesFns {
		fn(r)
	}
	return r
}

// Handler wraps the routing pipeline in the request ID adapter. CORS sits
// outside the adapter so preflight replies, which have no body, are answered
// before it. The metrics endpoint is served beside the adapter.
func (a *Application) Handler() http.Handler {
	adapted := pipeline.New(a.Router().Handler(),
		pipeline.WithLogger(logger.L),
		pipeline.WithNote(config.TaskLocalsNote()),
		pipeline.WithObserver(metrics.Pipeline{}),
	)

	cors := middleware.DefaultCORSOptions()
	cors.AllowedOrigins = config.CORSOrigins()
	withCORS := middleware.CORS(cors)(adapted)

	metricsPath := config.MetricsPath()
	scrape := metrics.Handler()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == metricsPath {
			scrape(w, r)
			return
		}
		withCORS.ServeHTTP(w, r)
	})
}
