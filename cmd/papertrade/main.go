package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"github.com/starsim/papertrade/internal/config"
	"github.com/starsim/papertrade/internal/handler"
	"github.com/starsim/papertrade/internal/market"
	"github.com/starsim/papertrade/internal/service"
	"github.com/starsim/papertrade/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Optional .env file for local development (GEMINI_API_KEY etc.).
	_ = godotenv.Load()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Generate the stock universe and start the price ticker.
	m := market.New(market.DefaultParams(cfg.StockCount, cfg.HistoryBars), cfg.Seed)
	logger.Info("universe generated",
		slog.Int("stocks", cfg.StockCount),
		slog.Int("history_bars", cfg.HistoryBars),
	)
	market.NewTicker(cfg.TickInterval, m, logger).Start(ctx)

	// Ledger over the persisted account snapshot.
	accountStore := store.NewAccountStore(cfg.StateFile)
	tradingSvc, err := service.NewTradingService(m, accountStore, logger, cfg.StartingBalance, cfg.LotSize)
	if err != nil {
		logger.Error("failed to restore account", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Commentary via Gemini; without credentials the service runs with
	// fallback commentary only.
	var generator service.Generator
	if client, err := genai.NewClient(ctx, nil); err != nil {
		logger.Warn("commentary disabled, Gemini client unavailable", slog.String("error", err.Error()))
	} else {
		generator = service.NewGeminiGenerator(client, cfg.GeminiModel)
	}
	commentarySvc := service.NewCommentaryService(m, generator, cfg.CommentaryTimeout, logger)

	// Router.
	router := handler.NewRouter(m, tradingSvc, commentarySvc, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops the ticker).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
