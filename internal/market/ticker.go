package market

import (
	"context"
	"log/slog"
	"time"
)

// Ticker advances the market on a fixed cadence. It is the only writer
// of instrument state once the process is up.
type Ticker struct {
	interval time.Duration
	market   *Market
	logger   *slog.Logger
}

// NewTicker creates a Ticker for the given market.
func NewTicker(interval time.Duration, m *Market, logger *slog.Logger) *Ticker {
	return &Ticker{
		interval: interval,
		market:   m,
		logger:   logger,
	}
}

// Start launches a background goroutine that ticks the market at the
// configured interval. It stops when ctx is cancelled.
func (t *Ticker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				t.logger.Debug("price ticker stopped")
				return
			case <-ticker.C:
				t.market.Tick()
			}
		}
	}()
}
