package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/permission"
	"github.com/andresuchdata/stationops/backend-go/internal/repository"
)

// ProfileInput holds the profile fields a user may change; nil leaves a field as is.
type ProfileInput struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

type ProfileService struct {
	repo     repository.ProfileRepository
	stations repository.StationRepository
}

func NewProfileService(repo repository.ProfileRepository, stations repository.StationRepository) *ProfileService {
	return &ProfileService{repo: repo, stations: stations}
}

// Get returns the profile id, or the caller's own profile when id is blank.
func (s *ProfileService) Get(ctx context.Context, user domain.UserContext, id string) (*domain.UserProfile, error) {
	return s.authorize(ctx, user, id)
}

func (s *ProfileService) Update(ctx context.Context, user domain.UserContext, id string, in ProfileInput) (*domain.UserProfile, error) {
	profile, err := s.authorize(ctx, user, id)
	if err != nil {
		return nil, err
	}

	verr := domain.NewValidationError()
	var fullName, email, phone string
	if in.FullName != nil {
		fullName = strings.TrimSpace(*in.FullName)
		if fullName == "" {
			verr.Add("full_name", "must not be blank")
		}
	}
	if in.Email != nil {
		email = strings.TrimSpace(*in.Email)
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			verr.Add("email", "is not a valid email address")
		}
	}
	if in.Phone != nil {
		phone = strings.TrimSpace(*in.Phone)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if in.FullName != nil {
		profile.FullName = fullName
	}
	if in.Email != nil {
		profile.Email = email
	}
	if in.Phone != nil {
		profile.Phone = phone
	}

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// authorize loads the target profile. Profiles outside the caller's scope are
// not found; profiles in scope but at or above the caller's rank are forbidden.
func (s *ProfileService) authorize(ctx context.Context, user domain.UserContext, id string) (*domain.UserProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = user.ID
	}
	if id == "" {
		return nil, fmt.Errorf("profile: %w", domain.ErrForbidden)
	}
	self := id == user.ID
	if !self && !permission.Resolve(user.Role).CanManageUsers {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrForbidden)
	}

	profile, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if self {
		return profile, nil
	}

	station, err := s.assignedStation(ctx, profile)
	if err != nil {
		return nil, err
	}
	if !permission.ProfileInScope(user, *profile, station) {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	if !permission.CanManageProfile(user, profile.Role) {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrForbidden)
	}
	return profile, nil
}

func (s *ProfileService) assignedStation(ctx context.Context, profile *domain.UserProfile) (*domain.Station, error) {
	if profile.StationID == "" || s.stations == nil {
		return nil, nil
	}
	station, err := s.stations.GetStation(ctx, profile.StationID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return station, err
}
