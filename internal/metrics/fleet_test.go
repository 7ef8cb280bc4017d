package metrics

import (
	"math"
	"testing"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAggregateFleetMetrics_TwoStations(t *testing.T) {
	stations := []domain.DealerStation{
		{CurrentSales: 1000, StockLevel: 500, LossPercentage: 1.0},
		{CurrentSales: 2000, StockLevel: 1500, LossPercentage: 3.0},
	}

	got := AggregateFleetMetrics(stations)

	assert.InDelta(t, 3000, got.MonthlySales, 1e-9)
	assert.InDelta(t, 2000, got.StockBalance, 1e-9)
	assert.InDelta(t, 2.0, got.AvgLossPercentage, 1e-9)
	assert.Equal(t, 2, got.StationCount)
}

func TestAggregateFleetMetrics_EmptyIsZero(t *testing.T) {
	for _, in := range [][]domain.DealerStation{nil, {}} {
		got := AggregateFleetMetrics(in)
		assert.Equal(t, domain.FleetMetrics{}, got)
		assert.False(t, math.IsNaN(got.AvgLossPercentage))
	}
}

func TestAggregateFleetMetrics_NaNInputsCountAsZero(t *testing.T) {
	stations := []domain.DealerStation{
		{CurrentSales: math.NaN(), StockLevel: math.Inf(1), LossPercentage: math.NaN()},
		{CurrentSales: 10, StockLevel: 5, LossPercentage: 4},
	}

	got := AggregateFleetMetrics(stations)
	assert.InDelta(t, 10, got.MonthlySales, 1e-9)
	assert.InDelta(t, 5, got.StockBalance, 1e-9)
	assert.InDelta(t, 2, got.AvgLossPercentage, 1e-9)
}

func TestAggregateFleetMetrics_Idempotent(t *testing.T) {
	stations := []domain.DealerStation{
		{CurrentSales: 10.5, StockLevel: 3, LossPercentage: 0.25},
		{CurrentSales: 7.25, StockLevel: 9, LossPercentage: 1.75},
		{CurrentSales: 0, StockLevel: 0, LossPercentage: 0},
	}

	first := AggregateFleetMetrics(stations)
	second := AggregateFleetMetrics(stations)
	assert.Equal(t, first, second)
}
