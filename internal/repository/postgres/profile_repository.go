package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/repository"
	"github.com/andresuchdata/stationops/backend-go/internal/transform"
)

type profileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetProfile(ctx context.Context, id string) (*domain.UserProfile, error) {
	query := `
		SELECT id, full_name, email, phone, role, station_id, dealer_id, omc_id, created_at
		FROM user_profiles
		WHERE id = $1
	`

	var row transform.ProfileRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("error getting profile %s: %w", id, err)
	}

	profile := transform.ToProfile(row)
	return &profile, nil
}

func (r *profileRepository) UpdateProfile(ctx context.Context, p *domain.UserProfile) error {
	query := `
		UPDATE user_profiles SET
			full_name = $2,
			email = $3,
			phone = $4,
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.FullName, p.Email, nullString(p.Phone))
	if err != nil {
		return fmt.Errorf("failed to update profile %s: %w", p.ID, err)
	}
	return requireAffected(res, "profile", p.ID)
}
