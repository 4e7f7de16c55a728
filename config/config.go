package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"macdStreamBot/internal/adapters/logger"
)

// Config holds all application configuration.
type Config struct {
	// Alpaca API
	APIKey    string
	SecretKey string
	UsePaper  bool

	// Streaming Parameters
	Symbol                 string
	Interval               time.Duration // wait between ticks
	Lookback               time.Duration // price history window per fetch
	MaxConsecutiveFailures int           // transient fetch failures tolerated before aborting
	MaxFetchRetries        int           // retries inside a single fetch

	// Indicator Parameters
	FastPeriod    int
	SlowPeriod    int
	SignalPeriod  int
	SignalEpsilon float64 // histogram dead zone for signal classification

	// Hardware
	EnableDAC bool

	// Database
	DBPath string

	// Output
	CSVPath string // optional per-tick CSV log, empty to disable

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Alpaca API
	cfg.APIKey = getEnv("ALPACA_API_KEY", "")
	cfg.SecretKey = getEnv("ALPACA_SECRET_KEY", "")
	cfg.UsePaper = getEnvAsBool("USE_PAPER", true) // Default to paper trading for safety

	// Streaming Parameters
	cfg.Symbol = getEnv("SYMBOL", "AAPL")
	if cfg.Symbol == "" {
		errs = append(errs, "SYMBOL must be set")
	}

	intervalSeconds, err := getEnvAsIntRequired("INTERVAL_SECONDS", 60)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid INTERVAL_SECONDS: %v", err))
	} else if intervalSeconds <= 0 {
		errs = append(errs, "INTERVAL_SECONDS must be positive")
	}
	cfg.Interval = time.Duration(intervalSeconds) * time.Second

	lookbackMinutes, err := getEnvAsIntRequired("LOOKBACK_MINUTES", 60)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid LOOKBACK_MINUTES: %v", err))
	} else if lookbackMinutes <= 0 {
		errs = append(errs, "LOOKBACK_MINUTES must be positive")
	}
	cfg.Lookback = time.Duration(lookbackMinutes) * time.Minute

	cfg.MaxConsecutiveFailures = getEnvAsInt("MAX_CONSECUTIVE_FAILURES", 3)
	if cfg.MaxConsecutiveFailures <= 0 {
		errs = append(errs, "MAX_CONSECUTIVE_FAILURES must be positive")
	}

	cfg.MaxFetchRetries = getEnvAsInt("MAX_FETCH_RETRIES", 3)
	if cfg.MaxFetchRetries < 0 {
		errs = append(errs, "MAX_FETCH_RETRIES cannot be negative")
	}

	// Indicator Parameters (using defaults if not set)
	cfg.FastPeriod = getEnvAsInt("MACD_FAST_PERIOD", 12)
	cfg.SlowPeriod = getEnvAsInt("MACD_SLOW_PERIOD", 26)
	cfg.SignalPeriod = getEnvAsInt("MACD_SIGNAL_PERIOD", 9)
	cfg.SignalEpsilon = getEnvAsFloat("SIGNAL_EPSILON", 1e-9)

	if cfg.FastPeriod <= 0 || cfg.SlowPeriod <= 0 || cfg.SignalPeriod <= 0 {
		errs = append(errs, "MACD periods must be positive")
	}
	if cfg.FastPeriod >= cfg.SlowPeriod {
		errs = append(errs, "MACD_FAST_PERIOD must be less than MACD_SLOW_PERIOD")
	}
	if cfg.SignalEpsilon <= 0 {
		errs = append(errs, "SIGNAL_EPSILON must be positive")
	}

	// The lookback window has to cover the indicator warm-up.
	minSamples := cfg.SlowPeriod + cfg.SignalPeriod
	if lookbackMinutes > 0 && lookbackMinutes < minSamples {
		errs = append(errs, fmt.Sprintf("LOOKBACK_MINUTES must cover at least %d one-minute bars for MACD warm-up", minSamples))
	}

	// Hardware
	cfg.EnableDAC = getEnvAsBool("ENABLE_DAC", false)

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/orders.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Output
	cfg.CSVPath = getEnv("CSV_PATH", "")

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr)

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
