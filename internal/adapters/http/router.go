package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/metadata-access-client/internal/adapters/http/handlers"
	"github.com/jsamuelsen/metadata-access-client/internal/adapters/http/middleware"
	"github.com/jsamuelsen/metadata-access-client/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// ServiceName names the process in traces and metrics.
	ServiceName string

	// Accounts maps user ids to basic-auth passwords. Empty disables the
	// credential check.
	Accounts map[string]string

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// ZoneHandler serves the governance zone endpoints.
	ZoneHandler *handlers.ZoneHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips health endpoints)
//
// Route groups:
//   - /-/ (internal): Health endpoints, no auth required
//   - /servers/:serverName/... : metadata server endpoints, basic auth when
//     accounts are configured
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(cfg.ServiceName),
		middleware.Logging(cfg.Logger),
	)

	engine.HandleMethodNotAllowed = true
	engine.NoRoute(noRoute)
	engine.NoMethod(noMethod)

	// no auth, no timeout for health checks
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(engine)
	}

	api := engine.Group("")
	if cfg.Timeout > 0 {
		api.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	if cfg.ZoneHandler != nil {
		cfg.ZoneHandler.RegisterZoneRoutes(api, middleware.RequireBasicAuth(cfg.Accounts))
	}
}
