package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/irarb/internal/middleware"
)

const requestTimeout = 10 * time.Second

// RouterOptions tunes NewRouter. The zero value is usable.
type RouterOptions struct {
	RequestsPerMinute int          // Per-IP limit; 0 means middleware.DefaultRequestsPerMinute
	Burst             int          // Per-IP burst; 0 means middleware.DefaultBurst
	Metrics           http.Handler // Served on /metrics when set
}

// NewRouter creates a Gin engine with routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter).
//   - Adds request timeout handling (10 seconds).
//   - Mounts Swagger docs (/swagger/*any) and Prometheus (/metrics).
//   - Configures API v1 routes (/api/v1).
//
// Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = middleware.DefaultRequestsPerMinute
	}
	if opts.Burst <= 0 {
		opts.Burst = middleware.DefaultBurst
	}

	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
	)

	// ─── Ops ──────────────────────────────────────
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimiter(opts.RequestsPerMinute, opts.Burst))
	v1.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	{
		v1.GET("/rates", handler.GetRates)
		v1.GET("/rates/:maturity", handler.GetMaturityRates)
		v1.GET("/opportunities", handler.GetOpportunities)
		v1.GET("/opportunities/history", handler.GetOpportunityHistory)
	}

	return router
}
