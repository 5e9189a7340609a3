package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, Postgres and Redis connection details and the
// rate engine itself.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=irarb
//	POSTGRES_SSLMODE=disable
//	REDIS_ADDR=localhost:6379
//	UNDERLIERS=GGAL,YPFD,PAMP,DLR
//	DAYS_IN_A_YEAR=365
//	SPOT_UPDATE_FREQUENCY=1s
//	MARKETDATA_TIMEOUT=500ms
type Config struct {
	Server     ServerConfig     // HTTP server configuration
	Postgres   PostgresConfig   // PostgreSQL connection settings
	Redis      RedisConfig      // Market data store
	Engine     EngineConfig     // Rate engine settings
	MarketData MarketDataConfig // Quote/spot source settings
	Scheduler  SchedulerConfig  // Refresh loop settings
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port            string // The TCP port the HTTP server will listen on (e.g., "8080")
	RateLimitPerMin int    // Per-IP request budget on /api/v1
	RateLimitBurst  int    // Per-IP burst on /api/v1
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// RedisConfig defines where the market data feeders publish books and spots.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// EngineConfig holds the rate engine settings.
type EngineConfig struct {
	Underliers      []string // Underlier tickers scanned each cycle
	DaysInAYear     float64  // Day-count convention
	RequireTwoSided bool     // Only use instruments quoted on both sides
}

// MarketDataConfig holds settings shared by every market data source.
type MarketDataConfig struct {
	Timeout         time.Duration // Deadline applied to each source call
	BreakerFailures uint32        // Consecutive failures that open the breaker
	BreakerCooldown time.Duration // Time the breaker stays open before probing
}

// SchedulerConfig holds refresh loop settings.
type SchedulerConfig struct {
	SpotUpdateFrequency time.Duration // Interval between refresh cycles
	TradingDaysOnly     bool          // Skip refresh on weekends and market holidays
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() will
//     terminate the app with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("HTTP_RATE_LIMIT_PER_MINUTE", 600)
	viper.SetDefault("HTTP_RATE_LIMIT_BURST", 50)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "irarb")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("UNDERLIERS", "GGAL,YPFD,PAMP,DLR")
	viper.SetDefault("DAYS_IN_A_YEAR", 365)
	viper.SetDefault("REQUIRE_TWO_SIDED_QUOTES", true)
	viper.SetDefault("MARKETDATA_TIMEOUT", "500ms")
	viper.SetDefault("MARKETDATA_BREAKER_FAILURES", 3)
	viper.SetDefault("MARKETDATA_BREAKER_COOLDOWN", "10s")
	viper.SetDefault("SPOT_UPDATE_FREQUENCY", "1s")
	viper.SetDefault("SCHEDULER_TRADING_DAYS_ONLY", false)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			RateLimitPerMin: viper.GetInt("HTTP_RATE_LIMIT_PER_MINUTE"),
			RateLimitBurst:  viper.GetInt("HTTP_RATE_LIMIT_BURST"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Engine: EngineConfig{
			Underliers:      parseList(viper.GetString("UNDERLIERS")),
			DaysInAYear:     viper.GetFloat64("DAYS_IN_A_YEAR"),
			RequireTwoSided: viper.GetBool("REQUIRE_TWO_SIDED_QUOTES"),
		},
		MarketData: MarketDataConfig{
			Timeout:         viper.GetDuration("MARKETDATA_TIMEOUT"),
			BreakerFailures: viper.GetUint32("MARKETDATA_BREAKER_FAILURES"),
			BreakerCooldown: viper.GetDuration("MARKETDATA_BREAKER_COOLDOWN"),
		},
		Scheduler: SchedulerConfig{
			SpotUpdateFrequency: viper.GetDuration("SPOT_UPDATE_FREQUENCY"),
			TradingDaysOnly:     viper.GetBool("SCHEDULER_TRADING_DAYS_ONLY"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = PostgresDSN(AppConfig.Postgres)

	validateConfig()
}

// PostgresDSN builds the database/sql connection string for cfg.
func PostgresDSN(cfg PostgresConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode,
	)
}

// parseList splits a comma separated ticker list, upper-casing entries.
func parseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	if missing := missingFields(AppConfig); len(missing) > 0 {
		log.Fatalf("❌ Missing or invalid environment variables: %v\n", missing)
	}
}

func missingFields(cfg Config) []string {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if cfg.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if cfg.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if cfg.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if cfg.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if cfg.Redis.Addr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if len(cfg.Engine.Underliers) == 0 {
		missing = append(missing, "UNDERLIERS")
	}
	if cfg.Engine.DaysInAYear <= 0 {
		missing = append(missing, "DAYS_IN_A_YEAR")
	}
	if cfg.Scheduler.SpotUpdateFrequency <= 0 {
		missing = append(missing, "SPOT_UPDATE_FREQUENCY")
	}
	if cfg.MarketData.Timeout <= 0 {
		missing = append(missing, "MARKETDATA_TIMEOUT")
	}

	return missing
}
