package service

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/cache"
	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/loader"
	"github.com/andresuchdata/stationops/backend-go/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func octDay(d int) time.Time {
	return time.Date(2026, time.October, d, 8, 0, 0, 0, time.UTC)
}

func seededOps() *fakeOpsRepo {
	ops := newFakeOpsRepo()
	ops.sales["S1"] = []domain.SalesRecord{
		{StationID: "S1", SaleDate: octDay(10), OpeningMeter: 100, ClosingMeter: 250, TotalAmount: 1800},
		{StationID: "S1", SaleDate: octDay(11), OpeningMeter: 250, ClosingMeter: 300, TotalAmount: 1200},
		{StationID: "S1", SaleDate: time.Date(2026, time.September, 30, 8, 0, 0, 0, time.UTC), OpeningMeter: 0, ClosingMeter: 999, TotalAmount: 9999},
	}
	ops.stocks["S1"] = []domain.TankStock{
		{StationID: "S1", ProductID: "PMS", StockDate: octDay(11), OpeningStock: 1000, Deliveries: 500, ClosingStock: 1200},
	}
	ops.sales["S3"] = []domain.SalesRecord{
		{StationID: "S3", SaleDate: octDay(12), OpeningMeter: 0, ClosingMeter: 100, TotalAmount: 2000},
	}
	ops.commissions["D1"] = []domain.CommissionRecord{
		{DealerID: "D1", Month: "2026-10", TotalCommission: 400, Status: domain.CommissionPaid},
		{DealerID: "D1", Month: "2026-09-01", TotalCommission: 300, Status: domain.CommissionPending},
	}
	return ops
}

func newTestDashboardService(stations *fakeStationRepo, ops *fakeOpsRepo, c *countingDashboardCache) *DashboardService {
	var dashboards cache.DealerDashboardCache
	if c != nil {
		dashboards = c
	}
	return NewDashboardService(stations, ops, dashboards, DashboardOptions{
		CommissionRate: 0.12,
		MeterDelta:     metrics.MeterDeltaClamp,
		Loader:         loader.Options{Limit: 2, TaskTimeout: time.Second},
	})
}

func TestDashboardService_DealerDashboard(t *testing.T) {
	svc := newTestDashboardService(newFakeStationRepo(fixtureStations()...), seededOps(), nil)

	d, err := svc.DealerDashboard(context.Background(), dealerD1, fixedNow, false)
	require.NoError(t, err)

	assert.Equal(t, "2026-10", d.Period)
	assert.Empty(t, d.Warnings)
	require.Len(t, d.Stations, 2)
	assert.Equal(t, "S1", d.Stations[0].ID)
	assert.InDelta(t, 3000, d.Stations[0].CurrentSales, 1e-9)
	assert.InDelta(t, 1200, d.Stations[0].StockLevel, 1e-9)
	assert.InDelta(t, 6.667, d.Stations[0].LossPercentage, 1e-3)
	assert.InDelta(t, 0.12, d.Stations[0].CommissionRate, 1e-9)
	assert.Equal(t, "S3", d.Stations[1].ID)
	assert.Zero(t, d.Stations[1].LossPercentage)

	assert.Equal(t, 2, d.Metrics.StationCount)
	assert.InDelta(t, 5000, d.Metrics.MonthlySales, 1e-9)
	assert.InDelta(t, 1200, d.Metrics.StockBalance, 1e-9)
	assert.InDelta(t, 3.333, d.Metrics.AvgLossPercentage, 1e-3)

	require.Len(t, d.Losses, 1)
	assert.InDelta(t, 100, d.Losses[0].VolumeLoss, 1e-9)

	require.NotNil(t, d.CommissionStats)
	assert.InDelta(t, 700, d.CommissionStats.TotalCommission, 1e-9)
	assert.InDelta(t, 400, d.CommissionStats.CurrentMonthCommission, 1e-9)
	assert.InDelta(t, 300, d.CommissionStats.PreviousMonthCommission, 1e-9)

	assert.Equal(t, domain.ScopeDealer, d.Permissions.ViewScope)
}

func TestDashboardService_NoStationsIsZeroNotError(t *testing.T) {
	svc := newTestDashboardService(newFakeStationRepo(), newFakeOpsRepo(), nil)

	d, err := svc.DealerDashboard(context.Background(), dealerD1, fixedNow, false)
	require.NoError(t, err)
	assert.Empty(t, d.Stations)
	assert.NotNil(t, d.Stations)
	assert.Equal(t, 0, d.Metrics.StationCount)
	assert.Zero(t, d.Metrics.AvgLossPercentage)
	require.NotNil(t, d.CommissionStats)
	assert.Zero(t, d.CommissionStats.TotalCommission)
}

func TestDashboardService_FailedStationDegradesAndIsNotCached(t *testing.T) {
	ops := seededOps()
	ops.failSales["S3"] = errUpstream
	c := newCountingDashboardCache()
	svc := newTestDashboardService(newFakeStationRepo(fixtureStations()...), ops, c)

	d, err := svc.DealerDashboard(context.Background(), dealerD1, fixedNow, false)
	require.NoError(t, err)

	require.Len(t, d.Stations, 2)
	assert.InDelta(t, 3000, d.Stations[0].CurrentSales, 1e-9)
	assert.Zero(t, d.Stations[1].CurrentSales)
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "Ring Road")
	assert.Contains(t, d.Warnings[0], "upstream timeout")
	assert.Zero(t, c.sets)
}

func TestDashboardService_CommissionFailureWarns(t *testing.T) {
	ops := seededOps()
	ops.commErr = errUpstream
	svc := newTestDashboardService(newFakeStationRepo(fixtureStations()...), ops, nil)

	d, err := svc.DealerDashboard(context.Background(), dealerD1, fixedNow, false)
	require.NoError(t, err)
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "commissions unavailable")
	require.NotNil(t, d.CommissionStats)
	assert.Zero(t, d.CommissionStats.RecordCount)
	assert.Len(t, d.Stations, 2)
}

func TestDashboardService_StationListFailureWarns(t *testing.T) {
	stations := newFakeStationRepo(fixtureStations()...)
	stations.listErr = errUpstream
	svc := newTestDashboardService(stations, seededOps(), nil)

	d, err := svc.DealerDashboard(context.Background(), dealerD1, fixedNow, false)
	require.NoError(t, err)
	assert.Empty(t, d.Stations)
	require.NotEmpty(t, d.Warnings)
	assert.Contains(t, d.Warnings[0], "stations unavailable")
}

func TestDashboardService_CacheAndRefresh(t *testing.T) {
	stations := newFakeStationRepo(fixtureStations()...)
	c := newCountingDashboardCache()
	svc := newTestDashboardService(stations, seededOps(), c)
	ctx := context.Background()

	first, err := svc.DealerDashboard(ctx, dealerD1, fixedNow, false)
	require.NoError(t, err)
	assert.Equal(t, 1, c.sets)
	assert.Len(t, stations.queries, 1)

	second, err := svc.DealerDashboard(ctx, dealerD1, fixedNow, false)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Len(t, stations.queries, 1)

	_, err = svc.DealerDashboard(ctx, dealerD1, fixedNow, true)
	require.NoError(t, err)
	assert.Len(t, stations.queries, 2)
	assert.Equal(t, 2, c.sets)
}

func TestDashboardService_OMCHasNoCommissionStats(t *testing.T) {
	svc := newTestDashboardService(newFakeStationRepo(fixtureStations()...), seededOps(), nil)

	d, err := svc.DealerDashboard(context.Background(), omcO1, fixedNow, false)
	require.NoError(t, err)
	assert.Nil(t, d.CommissionStats)
	assert.Len(t, d.Stations, 2)
}

func TestDashboardService_StationLoss(t *testing.T) {
	svc := newTestDashboardService(newFakeStationRepo(fixtureStations()...), seededOps(), nil)
	ctx := context.Background()

	loss, err := svc.StationLoss(ctx, managerS1, "S1", fixedNow)
	require.NoError(t, err)
	require.NotNil(t, loss)
	assert.InDelta(t, 200, loss.TotalVolumeSold, 1e-9)
	assert.InDelta(t, 6.667, loss.LossPercentage, 1e-3)

	none, err := svc.StationLoss(ctx, dealerD1, "S3", fixedNow)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = svc.StationLoss(ctx, managerS1, "S2", fixedNow)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
