package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/cache"
	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/loader"
	"github.com/andresuchdata/stationops/backend-go/internal/metrics"
	"github.com/andresuchdata/stationops/backend-go/internal/permission"
	"github.com/andresuchdata/stationops/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// stationFigures are the month's raw records of one station.
type stationFigures struct {
	Sales  []domain.SalesRecord
	Stocks []domain.TankStock
}

type DashboardService struct {
	stations       repository.StationRepository
	ops            repository.OperationsRepository
	cache          cache.DealerDashboardCache
	calc           *metrics.LossCalculator
	commissionRate float64
	loaderOpts     loader.Options
}

type DashboardOptions struct {
	CommissionRate float64
	MeterDelta     metrics.MeterDeltaPolicy
	Loader         loader.Options
}

func NewDashboardService(stations repository.StationRepository, ops repository.OperationsRepository, cacheImpl cache.DealerDashboardCache, opts DashboardOptions) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &DashboardService{
		stations:       stations,
		ops:            ops,
		cache:          cacheImpl,
		calc:           metrics.NewLossCalculator(opts.MeterDelta),
		commissionRate: opts.CommissionRate,
		loaderOpts:     opts.Loader,
	}
}

// DealerDashboard loads and computes the dashboard of user for now's month.
// A station whose figures cannot be loaded keeps zero figures and adds a
// warning; degraded dashboards are not cached. refresh bypasses the cache.
func (s *DashboardService) DealerDashboard(ctx context.Context, user domain.UserContext, now time.Time, refresh bool) (*domain.DealerDashboard, error) {
	period := metrics.MonthKey(now)

	if !refresh {
		if dashboard, ok, err := s.cache.GetDashboard(ctx, user, period); err == nil && ok {
			return dashboard, nil
		} else if err != nil {
			log.Warn().Err(err).Msg("dashboard: cache get failed")
		}
	}

	dashboard := &domain.DealerDashboard{
		Period:      period,
		Stations:    []domain.DealerStation{},
		Losses:      []domain.LossAnalysis{},
		Permissions: permission.Resolve(user.Role),
		Warnings:    []string{},
		GeneratedAt: now,
	}

	stations, err := visibleStations(ctx, s.stations, user, domain.StationFilter{})
	if err != nil {
		log.Warn().Err(err).Msg("dashboard: station list unavailable")
		dashboard.Warnings = append(dashboard.Warnings, fmt.Sprintf("stations unavailable: %v", err))
		stations = nil
	}

	var (
		figures     []loader.Result[string, stationFigures]
		commissions []domain.CommissionRecord
		commErr     error
	)
	dealerID := dashboardDealerID(user)

	var g errgroup.Group
	g.Go(func() error {
		figures = s.loadFigures(ctx, stations, now)
		return nil
	})
	if dealerID != "" {
		g.Go(func() error {
			commissions, commErr = s.ops.ListCommissions(ctx, dealerID)
			return nil
		})
	}
	_ = g.Wait()

	for i, st := range stations {
		res := figures[i]
		if res.Err != nil {
			log.Warn().Err(res.Err).Str("station_id", st.ID).Msg("dashboard: station figures unavailable")
			dashboard.Warnings = append(dashboard.Warnings, fmt.Sprintf("station %s: figures unavailable: %v", st.Name, res.Err))
		}

		row, analysis := s.calc.BuildDealerStation(st, res.Value.Sales, res.Value.Stocks, s.commissionRate)
		dashboard.Stations = append(dashboard.Stations, row)
		if analysis != nil {
			dashboard.Losses = append(dashboard.Losses, *analysis)
		}
	}
	dashboard.Metrics = metrics.AggregateFleetMetrics(dashboard.Stations)

	if dealerID != "" {
		if commErr != nil {
			log.Warn().Err(commErr).Str("dealer_id", dealerID).Msg("dashboard: commissions unavailable")
			dashboard.Warnings = append(dashboard.Warnings, fmt.Sprintf("commissions unavailable: %v", commErr))
		}
		stats := metrics.AggregateCommissionStats(commissions, now)
		dashboard.CommissionStats = &stats
	}

	if len(dashboard.Warnings) == 0 {
		if err := s.cache.SetDashboard(ctx, user, period, dashboard); err != nil {
			log.Warn().Err(err).Msg("dashboard: cache set failed")
		}
	}

	return dashboard, nil
}

// StationLoss computes the loss analysis of one visible station for now's
// month. It returns nil without error when the station has no dips yet.
func (s *DashboardService) StationLoss(ctx context.Context, user domain.UserContext, stationID string, now time.Time) (*domain.LossAnalysis, error) {
	station, err := visibleStation(ctx, s.stations, user, stationID)
	if err != nil {
		return nil, err
	}

	fig, err := s.fetchFigures(ctx, station.ID, now)
	if err != nil {
		return nil, err
	}
	return s.calc.Compute(station.ID, fig.Sales, fig.Stocks), nil
}

func (s *DashboardService) loadFigures(ctx context.Context, stations []domain.Station, now time.Time) []loader.Result[string, stationFigures] {
	ids := make([]string, len(stations))
	for i, st := range stations {
		ids[i] = st.ID
	}
	return loader.Gather(ctx, s.loaderOpts, ids, func(ctx context.Context, id string) (stationFigures, error) {
		return s.fetchFigures(ctx, id, now)
	})
}

func (s *DashboardService) fetchFigures(ctx context.Context, stationID string, now time.Time) (stationFigures, error) {
	from, to := metrics.MonthBounds(now)

	sales, err := s.ops.ListSales(ctx, stationID, from, to)
	if err != nil {
		return stationFigures{}, fmt.Errorf("sales: %w", err)
	}
	stocks, err := s.ops.ListTankStocks(ctx, stationID, from, to)
	if err != nil {
		return stationFigures{}, fmt.Errorf("tank stocks: %w", err)
	}
	return stationFigures{Sales: sales, Stocks: stocks}, nil
}

// dashboardDealerID is the dealer whose commissions the dashboard shows.
func dashboardDealerID(user domain.UserContext) string {
	if permission.ScopeFor(user).Scope == domain.ScopeDealer {
		return user.DealerID
	}
	return ""
}
