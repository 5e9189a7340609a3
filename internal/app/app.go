package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guttosm/irarb/config"
	"github.com/guttosm/irarb/internal/api"
	"github.com/guttosm/irarb/internal/engine"
	"github.com/guttosm/irarb/internal/marketdata"
	"github.com/guttosm/irarb/internal/metrics"
	"github.com/guttosm/irarb/internal/scheduler"
	"github.com/guttosm/irarb/internal/service"
	"github.com/guttosm/irarb/internal/storage"
)

var errNoCycle = errors.New("no refresh cycle published yet")

// App bundles the long-lived components built by InitializeApp.
type App struct {
	Router    *gin.Engine
	Engine    *engine.Engine
	Scheduler *scheduler.Scheduler
}

// InitializeApp sets up all application dependencies and returns the
// wired App, a cleanup function for graceful shutdown, and any error
// encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL (instrument catalog, opportunity log) and Redis (books, spots).
//   - Wraps the market data source with a timeout and a circuit breaker.
//   - Builds the rate engine and the scheduler that refreshes it.
//   - Configures the Gin router with API, metrics and swagger routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources.
//
// The scheduler is returned unstarted; the caller runs it.
func InitializeApp() (*App, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redisOpener(cfg)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Storage serves both the engine catalog and the opportunity log
	repo := storage.NewRepository(db)
	catalog := storage.NewCatalog(repo, nil)

	src := marketdata.NewRedisSource(rdb)
	feed := marketdata.NewGuarded(src, src, marketdata.GuardSettings{
		Name:          "marketdata",
		Timeout:       cfg.MarketData.Timeout,
		MaxFailures:   cfg.MarketData.BreakerFailures,
		Cooldown:      cfg.MarketData.BreakerCooldown,
		OnStateChange: m.ObserveBreaker,
	})

	eng := engine.New(catalog, feed, feed, engine.Config{
		Underliers:      cfg.Engine.Underliers,
		DaysPerYear:     cfg.Engine.DaysInAYear,
		RequireTwoSided: cfg.Engine.RequireTwoSided,
	})

	sched := scheduler.New(eng, repo, m, scheduler.Config{
		Frequency:       cfg.Scheduler.SpotUpdateFrequency,
		TradingDaysOnly: cfg.Scheduler.TradingDaysOnly,
	})

	svc := service.NewRateService(eng, repo)
	handler := api.NewHandler(svc)

	router := api.NewRouter(handler, api.RouterOptions{
		RequestsPerMinute: cfg.Server.RateLimitPerMin,
		Burst:             cfg.Server.RateLimitBurst,
		Metrics:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	// Register health and readiness probes
	api.NewHealthHandler(
		api.Check{Name: "postgres", Fn: db.PingContext},
		api.Check{Name: "engine", Fn: func(context.Context) error {
			if eng.State() != engine.Populated {
				return errNoCycle
			}
			return nil
		}},
	).Register(router)

	cleanup := func() {
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router, Engine: eng, Scheduler: sched}, cleanup, nil
}
