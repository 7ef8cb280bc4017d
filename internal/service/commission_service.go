package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/metrics"
	"github.com/andresuchdata/stationops/backend-go/internal/permission"
	"github.com/andresuchdata/stationops/backend-go/internal/repository"
)

type CommissionService struct {
	stations repository.StationRepository
	ops      repository.OperationsRepository
	rate     float64
}

func NewCommissionService(stations repository.StationRepository, ops repository.OperationsRepository, rate float64) *CommissionService {
	return &CommissionService{stations: stations, ops: ops, rate: rate}
}

// Stats aggregates the commission records of dealerID as of now. A blank
// dealerID means the caller's own dealer.
func (s *CommissionService) Stats(ctx context.Context, user domain.UserContext, dealerID string, now time.Time) (*domain.CommissionStats, error) {
	dealerID = strings.TrimSpace(dealerID)
	if dealerID == "" {
		dealerID = user.DealerID
	}
	if dealerID == "" {
		verr := domain.NewValidationError()
		verr.Add("dealer_id", "is required")
		return nil, verr
	}

	if err := s.authorizeDealer(ctx, user, dealerID); err != nil {
		return nil, err
	}

	records, err := s.ops.ListCommissions(ctx, dealerID)
	if err != nil {
		return nil, fmt.Errorf("load commissions for dealer %s: %w", dealerID, err)
	}

	stats := metrics.AggregateCommissionStats(records, now)
	return &stats, nil
}

// Progressive returns the month-to-date commission progression of a visible station.
func (s *CommissionService) Progressive(ctx context.Context, user domain.UserContext, stationID string, now time.Time) ([]domain.ProgressiveCommission, error) {
	station, err := visibleStation(ctx, s.stations, user, stationID)
	if err != nil {
		return nil, err
	}

	from, to := metrics.MonthBounds(now)
	stocks, err := s.ops.ListTankStocks(ctx, station.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load tank stocks for station %s: %w", station.ID, err)
	}

	return metrics.ComputeProgressiveCommission(stocks, s.rate, now), nil
}

// authorizeDealer allows the all scope, a dealer reading their own records
// and an omc reading a dealer that runs one of its stations.
func (s *CommissionService) authorizeDealer(ctx context.Context, user domain.UserContext, dealerID string) error {
	scope := permission.ScopeFor(user)
	switch scope.Scope {
	case domain.ScopeAll:
		return nil
	case domain.ScopeDealer:
		if scope.DealerID == dealerID {
			return nil
		}
	case domain.ScopeOMC:
		stations, err := visibleStations(ctx, s.stations, user, domain.StationFilter{})
		if err != nil {
			return fmt.Errorf("load visible stations: %w", err)
		}
		for _, st := range stations {
			if st.DealerID == dealerID {
				return nil
			}
		}
	}
	return fmt.Errorf("commissions of dealer %s: %w", dealerID, domain.ErrForbidden)
}
