package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/stationops/backend-go/internal/cache"
	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/permission"
	"github.com/andresuchdata/stationops/backend-go/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StationInput is the editable part of a station.
type StationInput struct {
	Name             string `json:"name"`
	Code             string `json:"code"`
	City             string `json:"city"`
	Region           string `json:"region"`
	OMCID            string `json:"omc_id"`
	DealerID         string `json:"dealer_id"`
	ManagerID        string `json:"manager_id"`
	Status           string `json:"status"`
	ComplianceStatus string `json:"compliance_status"`
}

type StationService struct {
	repo       repository.StationRepository
	stations   cache.StationListCache
	dashboards cache.DealerDashboardCache
}

func NewStationService(repo repository.StationRepository, stations cache.StationListCache, dashboards cache.DealerDashboardCache) *StationService {
	if stations == nil {
		stations = cache.NewNoopStationCache()
	}
	if dashboards == nil {
		dashboards = cache.NewNoopDashboardCache()
	}
	return &StationService{repo: repo, stations: stations, dashboards: dashboards}
}

// scopedStationQuery pushes the caller's view scope down into a repository
// query. ok is false when the scope can never match a station.
func scopedStationQuery(user domain.UserContext, filter domain.StationFilter) (repository.StationQuery, bool) {
	scope := permission.ScopeFor(user)
	if scope.Empty() {
		return repository.StationQuery{}, false
	}

	q := repository.StationQuery{StationFilter: filter}
	switch scope.Scope {
	case domain.ScopeOMC:
		q.OMCID = scope.OMCID
	case domain.ScopeDealer:
		q.DealerID = scope.DealerID
	case domain.ScopeStation:
		q.StationIDs = []string{scope.StationID}
	}
	return q, true
}

// visibleStations lists the stations user may see, filtered by filter.
func visibleStations(ctx context.Context, repo repository.StationRepository, user domain.UserContext, filter domain.StationFilter) ([]domain.Station, error) {
	q, ok := scopedStationQuery(user, filter)
	if !ok {
		return []domain.Station{}, nil
	}

	stations, err := repo.ListStations(ctx, q)
	if err != nil {
		return nil, err
	}
	return permission.VisibleStations(user, stations), nil
}

// visibleStation loads one station, reporting ErrNotFound when it exists
// outside the caller's scope.
func visibleStation(ctx context.Context, repo repository.StationRepository, user domain.UserContext, id string) (*domain.Station, error) {
	station, err := repo.GetStation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permission.ScopeFor(user).Matches(*station) {
		return nil, fmt.Errorf("station %s: %w", id, domain.ErrNotFound)
	}
	return station, nil
}

// List returns the station directory visible to user.
func (s *StationService) List(ctx context.Context, user domain.UserContext, filter domain.StationFilter) ([]domain.Station, error) {
	if stations, ok, err := s.stations.GetStations(ctx, user, filter); err == nil && ok {
		return stations, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("stations: cache get list failed")
	}

	stations, err := visibleStations(ctx, s.repo, user, filter)
	if err != nil {
		return nil, err
	}

	if err := s.stations.SetStations(ctx, user, filter, stations); err != nil {
		log.Warn().Err(err).Msg("stations: cache set list failed")
	}

	return stations, nil
}

func (s *StationService) Get(ctx context.Context, user domain.UserContext, id string) (*domain.Station, error) {
	return visibleStation(ctx, s.repo, user, id)
}

// Create validates and stores a new station. omc and dealer callers own the
// station they create when they leave their scoping id blank.
func (s *StationService) Create(ctx context.Context, user domain.UserContext, in StationInput) (*domain.Station, error) {
	station := domain.Station{ID: uuid.NewString()}
	if err := applyStationInput(&station, in, true); err != nil {
		return nil, err
	}

	switch permission.EffectiveRole(user.Role) {
	case domain.RoleOMC:
		if station.OMCID == "" {
			station.OMCID = user.OMCID
		}
	case domain.RoleDealer:
		if station.DealerID == "" {
			station.DealerID = user.DealerID
		}
	}

	if !permission.CanCreateStation(user, station) {
		return nil, fmt.Errorf("create station: %w", domain.ErrForbidden)
	}
	if station.OMCID != "" {
		if err := s.checkOMC(ctx, user, station.OMCID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateStation(ctx, &station); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return &station, nil
}

// Update applies the non-blank fields of in. The caller must be able to edit
// the station both before and after the change.
func (s *StationService) Update(ctx context.Context, user domain.UserContext, id string, in StationInput) (*domain.Station, error) {
	current, err := visibleStation(ctx, s.repo, user, id)
	if err != nil {
		return nil, err
	}
	if !permission.CanEditStation(user, *current) {
		return nil, fmt.Errorf("edit station %s: %w", id, domain.ErrForbidden)
	}

	updated := *current
	if err := applyStationInput(&updated, in, false); err != nil {
		return nil, err
	}
	if !permission.CanEditStation(user, updated) {
		return nil, fmt.Errorf("move station %s out of scope: %w", id, domain.ErrForbidden)
	}
	if updated.OMCID != current.OMCID {
		if err := s.checkOMC(ctx, user, updated.OMCID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateStation(ctx, &updated); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return &updated, nil
}

func (s *StationService) Delete(ctx context.Context, user domain.UserContext, id string) error {
	current, err := visibleStation(ctx, s.repo, user, id)
	if err != nil {
		return err
	}
	if !permission.CanDeleteStation(user, *current) {
		return fmt.Errorf("delete station %s: %w", id, domain.ErrForbidden)
	}

	if err := s.repo.DeleteStation(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)

	return nil
}

func (s *StationService) checkOMC(ctx context.Context, user domain.UserContext, omcID string) error {
	var own []domain.Station
	if permission.EffectiveRole(user.Role) == domain.RoleDealer {
		var err error
		if own, err = visibleStations(ctx, s.repo, user, domain.StationFilter{}); err != nil {
			return err
		}
	}
	if !permission.CanAssignOMC(user, omcID, own) {
		return fmt.Errorf("assign station to omc %s: %w", omcID, domain.ErrForbidden)
	}
	return nil
}

func (s *StationService) invalidate(ctx context.Context) {
	if err := s.stations.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("stations: cache invalidate failed")
	}
	if err := s.dashboards.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("stations: dashboard cache invalidate failed")
	}
}

// applyStationInput copies in onto station. On create, name and code are
// required and blank statuses take their defaults.
func applyStationInput(station *domain.Station, in StationInput, create bool) error {
	verr := domain.NewValidationError()

	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&station.Name, in.Name)
	set(&station.Code, in.Code)
	set(&station.City, in.City)
	set(&station.Region, in.Region)
	set(&station.OMCID, in.OMCID)
	set(&station.DealerID, in.DealerID)
	set(&station.ManagerID, in.ManagerID)

	if create {
		if station.Name == "" {
			verr.Add("name", "is required")
		}
		if station.Code == "" {
			verr.Add("code", "is required")
		}
		station.Status = domain.StationActive
		station.ComplianceStatus = domain.UnderReview
	}

	if strings.TrimSpace(in.Status) != "" {
		if status, ok := domain.ParseStationStatus(in.Status); ok {
			station.Status = status
		} else {
			verr.Add("status", "must be one of active, inactive, maintenance")
		}
	}
	if strings.TrimSpace(in.ComplianceStatus) != "" {
		if status, ok := domain.ParseComplianceStatus(in.ComplianceStatus); ok {
			station.ComplianceStatus = status
		} else {
			verr.Add("compliance_status", "must be one of compliant, non_compliant, under_review")
		}
	}

	return verr.OrNil()
}
