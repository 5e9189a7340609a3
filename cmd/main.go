package main

//
//  @title           irarb API
//  @version         1.0
//  @description     Implied interest rate arbitrage engine for futures on an underlier.
//  @termsOfService  https://github.com/guttosm/irarb
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/irarb
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        rates
//  @tag.description Implied rate reads
//
//  @tag.name        opportunities
//  @tag.description Detected arbitrage opportunities
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/irarb/config"
	_ "github.com/guttosm/irarb/docs" // swagger docs
	"github.com/guttosm/irarb/internal/app"
	"github.com/guttosm/irarb/internal/ingestion"
	"github.com/guttosm/irarb/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the irarb application.
//
// Modes (selected via --mode flag):
//   - load: Replaces the instrument catalog with the files in --dir.
//   - run:  Starts the refresh scheduler and the REST API.
//
// Flags:
//   - --mode: Execution mode ("load" or "run"). Default: "run".
//   - --dir:  Directory containing instrument files. Default: "./data/instruments".
//   - --parallel: Files parsed concurrently (0=auto up to CPU, max 8).
//   - --port: Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "run", "Mode: load or run")
	dir := flag.String("dir", "./data/instruments", "Directory with instrument files")
	parallel := flag.Int("parallel", 0, "How many files to parse concurrently (0=auto up to CPU, max 8)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for run mode")
	flag.Parse()

	switch *mode {
	case "load":
		logger.L().Info().Str("dir", *dir).Msg("loading instrument catalog")

		// Direct DB connection for loading
		db, err := app.InitPostgres(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		n, err := ingestion.LoadDirectory(ctx, *dir, db, *parallel)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("catalog load failed")
		}
		logger.L().Info().Int("instruments", n).Msg("catalog load completed successfully")

	case "run":
		logger.L().Info().Strs("underliers", config.AppConfig.Engine.Underliers).Msg("starting rate engine")

		a, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		stop := startScheduler(ctx, a)
		server := startServer(a.Router, *port)
		gracefulShutdown(ctx, server, func() {
			stop()
			cleanup()
		})

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

// startScheduler runs the refresh loop in the background and returns a
// function that stops it and waits for the running cycle to finish.
func startScheduler(ctx context.Context, a *app.App) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = a.Scheduler.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
