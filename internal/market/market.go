// Package market owns the simulated instrument universe: it generates
// synthetic price histories at startup and advances every price on a
// fixed cadence. All reads are snapshot-style value copies, so any number
// of readers can run concurrently with the tick.
package market

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/starsim/papertrade/internal/domain"
)

// indexEntry orders the listing index by code, with the id as a
// tiebreaker. Min() is the lowest listing code.
type indexEntry struct {
	Code string
	ID   string
}

func indexLess(a, b indexEntry) bool {
	if a.Code != b.Code {
		return a.Code < b.Code
	}
	return a.ID < b.ID
}

// Market holds the stock universe. The tick is the only mutator and runs
// under the write lock; reads take the read lock and copy out.
type Market struct {
	mu     sync.RWMutex
	stocks map[string]*domain.Stock
	index  *btree.BTreeG[indexEntry]
	rng    *rand.Rand
	params Params
}

// New generates the universe from the given parameters. A zero seed
// derives one from the clock; any other seed reproduces the same universe
// and tick sequence. Params are assumed valid (config.Load enforces that).
func New(p Params, seed int64) *Market {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	const degree = 32
	m := &Market{
		stocks: make(map[string]*domain.Stock, p.StockCount),
		index:  btree.NewG[indexEntry](degree, indexLess),
		rng:    rand.New(rand.NewSource(seed)),
		params: p,
	}

	now := time.Now()
	for i := 0; i < p.StockCount; i++ {
		s := generateStock(i, p, m.rng, now)
		m.stocks[s.ID] = s
		m.index.ReplaceOrInsert(indexEntry{Code: s.Code, ID: s.ID})
	}
	return m
}

// Tick applies one independent multiplicative perturbation to every
// stock, updates the running intraday high/low, and recomputes the
// percent change against the stored previous close. Readers see either
// the pre-tick or post-tick state, never a torn one.
func (m *Market) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Walk the index rather than the map so the random samples are drawn
	// in a fixed order and a given seed replays the same tick sequence.
	m.index.Ascend(func(e indexEntry) bool {
		s := m.stocks[e.ID]
		s.Price = tickPrice(s.Price, m.rng.Float64(), m.params.TickVolatility)
		if s.Price > s.High {
			s.High = s.Price
		}
		if s.Price < s.Low {
			s.Low = s.Price
		}
		s.ChangePercent = domain.ChangePercent(s.Price, s.LastClose)
		return true
	})
}

// tickPrice is the pure per-stock price step: one bounded symmetric move
// of the given width, driven by a uniform sample in [0, 1).
func tickPrice(price int64, sample, volatility float64) int64 {
	return clampCents(float64(price) * (1 + (sample-0.5)*volatility))
}

// Snapshot returns a value copy of the stock without its history.
func (m *Market) Snapshot(id string) (domain.StockSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stocks[id]
	if !ok {
		return domain.StockSnapshot{}, domain.ErrStockNotFound
	}
	return s.Snapshot(), nil
}

// Price returns the stock's current price in cents.
func (m *Market) Price(id string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stocks[id]
	if !ok {
		return 0, domain.ErrStockNotFound
	}
	return s.Price, nil
}

// List returns snapshots ordered by listing code, optionally filtered to
// a single sector. An empty sector means no filter.
func (m *Market) List(sector string) []domain.StockSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.StockSnapshot, 0, len(m.stocks))
	m.index.Ascend(func(e indexEntry) bool {
		s := m.stocks[e.ID]
		if sector == "" || s.Sector == sector {
			out = append(out, s.Snapshot())
		}
		return true
	})
	return out
}

// Sectors returns the sector universe in its fixed order.
func (m *Market) Sectors() []string {
	out := make([]string, len(sectors))
	copy(out, sectors)
	return out
}

// History returns the stock's bars windowed or aggregated for the given
// chart period. The returned slice is a copy.
func (m *Market) History(id string, period domain.ChartPeriod) ([]domain.Bar, error) {
	if !domain.ValidChartPeriods[period] {
		return nil, &domain.ValidationError{
			Message: "period must be one of: intraday, five_day, daily, weekly, monthly, quarterly, yearly",
		}
	}

	m.mu.RLock()
	s, ok := m.stocks[id]
	if !ok {
		m.mu.RUnlock()
		return nil, domain.ErrStockNotFound
	}
	bars := make([]domain.Bar, len(s.History))
	copy(bars, s.History)
	m.mu.RUnlock()

	switch period {
	case domain.PeriodIntraday:
		return tail(bars, 1), nil
	case domain.PeriodFiveDay:
		return tail(bars, 5), nil
	case domain.PeriodDaily:
		return bars, nil
	default:
		return aggregate(bars, period), nil
	}
}

func tail(bars []domain.Bar, n int) []domain.Bar {
	if len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}
