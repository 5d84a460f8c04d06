package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/starsim/papertrade/internal/domain"
)

// Config holds all runtime configuration for the paper-trading simulator.
type Config struct {
	Port              int
	LogLevel          string
	StockCount        int
	HistoryBars       int
	Seed              int64 // 0 means derive from the clock
	TickInterval      time.Duration
	StartingBalance   int64 // cents
	LotSize           int64 // shares per lot
	StateFile         string
	GeminiModel       string
	CommentaryTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	stockCount, err := getInt("STOCK_COUNT", 200)
	if err != nil {
		return nil, fmt.Errorf("invalid STOCK_COUNT: %w", err)
	}
	if stockCount <= 0 {
		return nil, fmt.Errorf("invalid STOCK_COUNT: must be positive, got %d", stockCount)
	}

	historyBars, err := getInt("HISTORY_BARS", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_BARS: %w", err)
	}
	if historyBars <= 0 {
		return nil, fmt.Errorf("invalid HISTORY_BARS: must be positive, got %d", historyBars)
	}

	seed, err := getInt64("SEED", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED: %w", err)
	}

	tickInterval, err := getDuration("TICK_INTERVAL", 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid TICK_INTERVAL: %w", err)
	}
	if tickInterval <= 0 {
		return nil, fmt.Errorf("invalid TICK_INTERVAL: must be positive, got %s", tickInterval)
	}

	startingBalance, err := getCents("STARTING_BALANCE", 10_000_000) // $100,000.00
	if err != nil {
		return nil, fmt.Errorf("invalid STARTING_BALANCE: %w", err)
	}
	if startingBalance < 0 {
		return nil, fmt.Errorf("invalid STARTING_BALANCE: must be >= 0")
	}

	lotSize, err := getInt64("LOT_SIZE", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid LOT_SIZE: %w", err)
	}
	if lotSize <= 0 {
		return nil, fmt.Errorf("invalid LOT_SIZE: must be positive, got %d", lotSize)
	}

	commentaryTimeout, err := getDuration("COMMENTARY_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid COMMENTARY_TIMEOUT: %w", err)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:              port,
		LogLevel:          logLevel,
		StockCount:        stockCount,
		HistoryBars:       historyBars,
		Seed:              seed,
		TickInterval:      tickInterval,
		StartingBalance:   startingBalance,
		LotSize:           lotSize,
		StateFile:         getStr("STATE_FILE", "papertrade_state.json"),
		GeminiModel:       getStr("GEMINI_MODEL", "gemini-2.0-flash"),
		CommentaryTimeout: commentaryTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ShutdownTimeout:   shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getInt64(key string, defaultVal int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

// getCents reads a dollar amount from the environment and converts it to
// cents, e.g. STARTING_BALANCE=100000.00.
func getCents(key string, defaultCents int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultCents, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	cents, err := domain.DollarsToCents(f)
	if err != nil {
		return 0, err
	}
	return cents, nil
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
