package market

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/starsim/papertrade/internal/domain"
)

// sectors is the fixed sector universe. Stocks are spread over it
// round-robin at generation time.
var sectors = []string{
	"AI Chips",
	"New Energy",
	"Aerospace & Defense",
	"Low-Altitude Economy",
	"Biopharma",
	"Financials",
	"Semiconductors",
	"Consumer Electronics",
	"Spirits & Beverage",
	"Digital Economy",
}

// Name fragments combined by index so the universe is deterministic for a
// given stock count. Collisions are fine; listing codes are the unique key.
var (
	nameStems = []string{
		"Aurora", "Helios", "Vertex", "Quantis",
		"Nimbus", "Solara", "Kestrel", "Meridian",
	}
	nameSuffixes = []string{
		"Technologies", "Dynamics", "Holdings",
		"Group", "International", "Industries",
	}
)

// Params controls universe generation and the per-tick price walk.
// All prices are in cents. Volatility values are the full width of the
// symmetric perturbation, e.g. 0.05 means a move drawn from ±2.5%.
type Params struct {
	StockCount        int
	HistoryBars       int
	BasePriceMin      int64
	BasePriceMax      int64
	HistoryVolatility float64
	WickFactor        float64
	TickVolatility    float64
	MaxVolume         int64
}

// DefaultParams returns the demo parameters: base prices in [$5, $205],
// 5% daily-walk volatility, 2% wicks, ±0.1% per tick.
func DefaultParams(stockCount, historyBars int) Params {
	return Params{
		StockCount:        stockCount,
		HistoryBars:       historyBars,
		BasePriceMin:      500,
		BasePriceMax:      20500,
		HistoryVolatility: 0.05,
		WickFactor:        0.02,
		TickVolatility:    0.002,
		MaxVolume:         1_000_000,
	}
}

// generateStock synthesizes one stock: identity, sector, a daily random
// walk of HistoryBars bars, and current-day fields seeded from the final
// close. LastClose is seeded at 98% of the price so the initial percent
// change is nonzero.
func generateStock(i int, p Params, rng *rand.Rand, now time.Time) *domain.Stock {
	base := p.BasePriceMin + rng.Int63n(p.BasePriceMax-p.BasePriceMin+1)
	history := generateHistory(base, p, rng, now)

	price := history[len(history)-1].Close
	lastClose := clampCents(math.Round(float64(price) * 0.98))

	return &domain.Stock{
		ID:            fmt.Sprintf("stock-%d", i),
		Name:          fmt.Sprintf("%s %s", nameStems[i%len(nameStems)], nameSuffixes[i%len(nameSuffixes)]),
		Code:          fmt.Sprintf("%06d", 600000+i),
		Sector:        sectors[i%len(sectors)],
		Price:         price,
		OpenPrice:     price,
		High:          price,
		Low:           price,
		LastClose:     lastClose,
		ChangePercent: domain.ChangePercent(price, lastClose),
		History:       history,
	}
}

// generateHistory walks one OHLCV bar per prior day: each open perturbs
// the previous close, each close perturbs the open, and the wicks extend
// past the body by a bounded random factor.
func generateHistory(base int64, p Params, rng *rand.Rand, now time.Time) []domain.Bar {
	bars := make([]domain.Bar, 0, p.HistoryBars)
	day := now.Truncate(24 * time.Hour)
	lastClose := base

	for i := 0; i < p.HistoryBars; i++ {
		open := perturb(lastClose, p.HistoryVolatility, rng)
		close := perturb(open, p.HistoryVolatility, rng)

		body := max(open, close)
		high := clampCents(float64(body) * (1 + rng.Float64()*p.WickFactor))
		body = min(open, close)
		low := clampCents(float64(body) * (1 - rng.Float64()*p.WickFactor))

		bars = append(bars, domain.Bar{
			Time:   day.AddDate(0, 0, -(p.HistoryBars - i)),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: rng.Int63n(p.MaxVolume),
		})
		lastClose = close
	}
	return bars
}

// perturb applies one bounded symmetric multiplicative move to a price in
// cents and rounds to a whole, strictly positive cent value.
func perturb(price int64, volatility float64, rng *rand.Rand) int64 {
	return clampCents(float64(price) * (1 + (rng.Float64()-0.5)*volatility))
}

// clampCents rounds to whole cents and enforces the strictly-positive
// price invariant.
func clampCents(f float64) int64 {
	c := int64(math.Round(f))
	if c < 1 {
		return 1
	}
	return c
}
