package market

import (
	"time"

	"github.com/starsim/papertrade/internal/domain"
)

// aggregate folds chronologically ordered daily bars into calendar
// buckets: first open, last close, max high, min low, summed volume. The
// aggregated bar carries the last day's timestamp of its bucket.
func aggregate(bars []domain.Bar, period domain.ChartPeriod) []domain.Bar {
	if len(bars) == 0 {
		return bars
	}

	out := make([]domain.Bar, 0, len(bars))
	cur := bars[0]
	curKey := bucketKey(bars[0].Time, period)

	for _, b := range bars[1:] {
		key := bucketKey(b.Time, period)
		if key != curKey {
			out = append(out, cur)
			cur = b
			curKey = key
			continue
		}
		cur.Close = b.Close
		cur.Time = b.Time
		cur.Volume += b.Volume
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
	}
	return append(out, cur)
}

// bucketKey maps a bar's day onto its calendar bucket for the period.
func bucketKey(t time.Time, period domain.ChartPeriod) int {
	switch period {
	case domain.PeriodWeekly:
		year, week := t.ISOWeek()
		return year*100 + week
	case domain.PeriodMonthly:
		return t.Year()*100 + int(t.Month())
	case domain.PeriodQuarterly:
		return t.Year()*10 + (int(t.Month())-1)/3
	default: // yearly
		return t.Year()
	}
}
