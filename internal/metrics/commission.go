package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
)

// ComputeProgressiveCommission returns one entry per day of now's month that
// has at least one tank dip, ascending, with month-to-date running totals.
func ComputeProgressiveCommission(stocks []domain.TankStock, rate float64, now time.Time) []domain.ProgressiveCommission {
	start, end := MonthBounds(now)

	current := make([]domain.TankStock, 0, len(stocks))
	for _, s := range stocks {
		d := calendarDay(s.StockDate, now.Location())
		if !d.Before(start) && d.Before(end) {
			current = append(current, s)
		}
	}
	return BuildProgression(current, rate, now)
}

// BuildProgression groups dips by their calendar date and walks
// the days in ascending order. Running totals reset at every month boundary.
//
// A day whose consumption is negative (deliveries recorded late, dip error)
// contributes 0 so the running totals never decrease. A negative rate is
// treated as 0 for the same reason.
func BuildProgression(stocks []domain.TankStock, rate float64, now time.Time) []domain.ProgressiveCommission {
	loc := now.Location()
	rate = math.Max(0, num(rate))

	byDay := make(map[time.Time]*domain.ProgressiveCommission)
	for _, s := range stocks {
		day := calendarDay(s.StockDate, loc)
		entry, ok := byDay[day]
		if !ok {
			entry = &domain.ProgressiveCommission{Date: day, DayOfMonth: day.Day()}
			byDay[day] = entry
		}
		entry.TankDipCount++
		entry.OpeningStock += num(s.OpeningStock)
		entry.ClosingStock += num(s.ClosingStock)
		entry.ReceivedStock += num(s.Deliveries)
		entry.Volume += num(s.Consumed())
	}

	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([]domain.ProgressiveCommission, 0, len(days))
	var (
		cumVolume     float64
		cumCommission float64
		prev          time.Time
	)
	for i, d := range days {
		if i == 0 || !sameMonth(prev, d) {
			cumVolume, cumCommission = 0, 0
		}
		prev = d

		entry := *byDay[d]
		entry.Volume = math.Max(0, entry.Volume)
		entry.CommissionEarned = entry.Volume * rate
		cumVolume += entry.Volume
		cumCommission += entry.CommissionEarned
		entry.CumulativeVolume = cumVolume
		entry.CumulativeCommission = cumCommission
		entry.IsToday = sameDay(d, now)

		out = append(out, entry)
	}
	return out
}
