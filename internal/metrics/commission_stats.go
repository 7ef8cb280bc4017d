package metrics

import (
	"math"
	"strings"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
)

// AggregateCommissionStats summarises a dealer's commission records as of now.
//
// Paid records count as paid, void records (cancelled, rejected) are skipped
// and every other status counts as pending, so TotalCommission is always
// PaidCommission + PendingCommission. Months match on their "YYYY-MM" prefix.
func AggregateCommissionStats(records []domain.CommissionRecord, now time.Time) domain.CommissionStats {
	var stats domain.CommissionStats

	currentKey := MonthKey(now)
	start, _ := MonthBounds(now)
	previousKey := MonthKey(start.AddDate(0, -1, 0))

	for _, r := range records {
		if r.Status.IsVoid() {
			continue
		}
		stats.RecordCount++

		total := num(r.TotalCommission)
		if r.Status.IsPaid() {
			stats.PaidCommission += total
		} else {
			stats.PendingCommission += total
		}
		addBreakdown(&stats.Overall, r)

		month := strings.TrimSpace(r.Month)
		switch {
		case strings.HasPrefix(month, currentKey):
			stats.CurrentMonthCommission += total
			addBreakdown(&stats.CurrentMonth, r)
		case strings.HasPrefix(month, previousKey):
			stats.PreviousMonthCommission += total
			addBreakdown(&stats.PreviousMonth, r)
		}
	}

	stats.TotalCommission = stats.PaidCommission + stats.PendingCommission
	stats.MonthOverMonthChange = percentChange(stats.PreviousMonthCommission, stats.CurrentMonthCommission)
	stats.CurrentMonthProgress = MonthProgress(now)
	stats.EstimatedFinalCommission = EstimateFinalCommission(stats.CurrentMonthCommission, stats.CurrentMonthProgress)

	return stats
}

func addBreakdown(b *domain.CommissionBreakdown, r domain.CommissionRecord) {
	b.Base += num(r.Amount)
	b.Windfall += num(r.WindfallAmount)
	b.Shortfall += num(r.ShortfallAmount)
	b.Total += num(r.TotalCommission)
}

// MonthProgress is the elapsed share of now's month in percent, counting today.
func MonthProgress(now time.Time) float64 {
	return float64(now.Day()) / float64(DaysInMonth(now)) * 100
}

// EstimateFinalCommission projects the month-end commission linearly from
// progress (percent). With no progress the current value is returned unchanged.
func EstimateFinalCommission(current, progress float64) float64 {
	progress = num(progress)
	if progress <= 0 {
		return current
	}
	return current / progress * 100
}

func percentChange(previous, current float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}
