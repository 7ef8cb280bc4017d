package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/repository"
	"github.com/andresuchdata/stationops/backend-go/internal/transform"
	"github.com/lib/pq"
)

const stationColumns = `id, name, code, city, region, omc_id, dealer_id, manager_id,
	status, compliance_status, total_sales, total_violations`

type stationRepository struct {
	db *DB
}

func NewStationRepository(db *DB) repository.StationRepository {
	return &stationRepository{db: db}
}

func (r *stationRepository) ListStations(ctx context.Context, q repository.StationQuery) ([]domain.Station, error) {
	var w whereBuilder
	w.addIf("omc_id = ?", q.OMCID)
	w.addIf("dealer_id = ?", q.DealerID)
	if q.StationIDs != nil {
		w.add("id = ANY(?::text[])", pq.Array(q.StationIDs))
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		w.add("(name ILIKE ? OR code ILIKE ? OR city ILIKE ?)", pattern, pattern, pattern)
	}
	w.addIf("region = ?", q.Region)
	w.addIf("status = ?", q.Status)
	w.addIf("compliance_status = ?", q.ComplianceStatus)

	query := "SELECT " + stationColumns + " FROM stations" + w.clause() + " ORDER BY name ASC"

	var rows []transform.StationRow
	if err := r.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("error listing stations: %w", err)
	}

	return transform.Map(rows, transform.ToStation), nil
}

func (r *stationRepository) GetStation(ctx context.Context, id string) (*domain.Station, error) {
	query := "SELECT " + stationColumns + " FROM stations WHERE id = $1"

	var row transform.StationRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("station %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("error getting station %s: %w", id, err)
	}

	station := transform.ToStation(row)
	return &station, nil
}

func (r *stationRepository) CreateStation(ctx context.Context, s *domain.Station) error {
	query := `
		INSERT INTO stations (
			id, name, code, city, region, omc_id, dealer_id, manager_id,
			status, compliance_status, total_sales, total_violations, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Code, nullString(s.City), s.Region,
		nullString(s.OMCID), nullString(s.DealerID), nullString(s.ManagerID),
		s.Status, s.ComplianceStatus, s.TotalSales, s.TotalViolations,
	)
	if err != nil {
		return fmt.Errorf("failed to insert station: %w", err)
	}
	return nil
}

func (r *stationRepository) UpdateStation(ctx context.Context, s *domain.Station) error {
	query := `
		UPDATE stations SET
			name = $2,
			code = $3,
			city = $4,
			region = $5,
			omc_id = $6,
			dealer_id = $7,
			manager_id = $8,
			status = $9,
			compliance_status = $10,
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Code, nullString(s.City), s.Region,
		nullString(s.OMCID), nullString(s.DealerID), nullString(s.ManagerID),
		s.Status, s.ComplianceStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update station %s: %w", s.ID, err)
	}
	return requireAffected(res, "station", s.ID)
}

func (r *stationRepository) DeleteStation(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete station %s: %w", id, err)
	}
	return requireAffected(res, "station", id)
}

func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
