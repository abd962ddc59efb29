package market

import (
	"context"
	"time"

	"github.com/finbrief/finbrief/internal/finnhub"
)

// earningsLookahead is how far forward the next-earnings search looks.
const earningsLookahead = 365 * 24 * time.Hour

// EarningsResolver answers when a symbol reports next, from the Finnhub
// earnings calendar.
type EarningsResolver struct {
	Client *finnhub.Client
}

// NextEarnings returns the next scheduled earnings date for symbol on
// or after today, formatted YYYY-MM-DD, searching one year ahead. Nil
// means no upcoming date is known, whether none is scheduled or the
// calendar fetch failed.
func (r EarningsResolver) NextEarnings(ctx context.Context, symbol string, today time.Time) *string {
	from := today.Format("2006-01-02")
	to := today.Add(earningsLookahead).Format("2006-01-02")
	entries := r.Client.EarningsCalendar(ctx, symbol, from, to)
	return nextEarningsDate(entries, symbol, today)
}

// nextEarningsDate picks the earliest calendar entry for symbol dated
// today or later. Entries for other symbols and entries whose date does
// not parse are skipped.
func nextEarningsDate(entries []finnhub.EarningsEntry, symbol string, today time.Time) *string {
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var best *time.Time
	for _, e := range entries {
		if e.Symbol != symbol {
			continue
		}
		d, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			continue
		}
		if d.Before(midnight) {
			continue
		}
		if best == nil || d.Before(*best) {
			t := d
			best = &t
		}
	}
	if best == nil {
		return nil
	}
	s := best.Format("2006-01-02")
	return &s
}
