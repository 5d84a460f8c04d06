package domain

import "time"

// Bar is a single OHLCV bar of synthetic price history. Prices are in
// cents. Bars are append-only during generation and immutable afterwards.
type Bar struct {
	Time   time.Time
	Open   int64
	High   int64
	Low    int64
	Close  int64
	Volume int64
}

// Stock is a simulated instrument owned by the market package. All
// monetary fields are in cents. Mutations happen only inside the market's
// write lock; everything outside the market reads StockSnapshot copies.
type Stock struct {
	ID            string
	Name          string
	Code          string
	Sector        string
	Price         int64
	OpenPrice     int64
	High          int64
	Low           int64
	LastClose     int64
	ChangePercent float64
	History       []Bar
}

// StockSnapshot is a point-in-time value copy of a stock without its
// history, safe to hold across subsequent ticks.
type StockSnapshot struct {
	ID            string
	Name          string
	Code          string
	Sector        string
	Price         int64
	OpenPrice     int64
	High          int64
	Low           int64
	LastClose     int64
	ChangePercent float64
}

// Snapshot returns the stock's current state as a value copy.
func (s *Stock) Snapshot() StockSnapshot {
	return StockSnapshot{
		ID:            s.ID,
		Name:          s.Name,
		Code:          s.Code,
		Sector:        s.Sector,
		Price:         s.Price,
		OpenPrice:     s.OpenPrice,
		High:          s.High,
		Low:           s.Low,
		LastClose:     s.LastClose,
		ChangePercent: s.ChangePercent,
	}
}

// ChartPeriod selects how history bars are windowed or aggregated.
type ChartPeriod string

const (
	PeriodIntraday  ChartPeriod = "intraday"
	PeriodFiveDay   ChartPeriod = "five_day"
	PeriodDaily     ChartPeriod = "daily"
	PeriodWeekly    ChartPeriod = "weekly"
	PeriodMonthly   ChartPeriod = "monthly"
	PeriodQuarterly ChartPeriod = "quarterly"
	PeriodYearly    ChartPeriod = "yearly"
)

// ValidChartPeriods lists all accepted chart period values for validation.
var ValidChartPeriods = map[ChartPeriod]bool{
	PeriodIntraday:  true,
	PeriodFiveDay:   true,
	PeriodDaily:     true,
	PeriodWeekly:    true,
	PeriodMonthly:   true,
	PeriodQuarterly: true,
	PeriodYearly:    true,
}
