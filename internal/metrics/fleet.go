package metrics

import "github.com/andresuchdata/stationops/backend-go/internal/domain"

// AggregateFleetMetrics totals the visible dealer stations.
// The average loss of an empty set is 0.
func AggregateFleetMetrics(stations []domain.DealerStation) domain.FleetMetrics {
	var out domain.FleetMetrics
	var lossSum float64

	for _, st := range stations {
		out.MonthlySales += num(st.CurrentSales)
		out.StockBalance += num(st.StockLevel)
		lossSum += num(st.LossPercentage)
	}

	out.StationCount = len(stations)
	if out.StationCount > 0 {
		out.AvgLossPercentage = lossSum / float64(out.StationCount)
	}
	return out
}
