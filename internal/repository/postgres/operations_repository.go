package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/repository"
	"github.com/andresuchdata/stationops/backend-go/internal/transform"
)

type operationsRepository struct {
	db *DB
}

func NewOperationsRepository(db *DB) repository.OperationsRepository {
	return &operationsRepository{db: db}
}

func (r *operationsRepository) ListSales(ctx context.Context, stationID string, from, to time.Time) ([]domain.SalesRecord, error) {
	query := `
		SELECT id, station_id, product_id, sale_date, opening_meter, closing_meter, total_amount
		FROM sales_records
		WHERE station_id = $1 AND sale_date >= $2 AND sale_date < $3
		ORDER BY sale_date ASC
	`

	var rows []transform.SalesRow
	if err := r.db.SelectContext(ctx, &rows, query, stationID, from, to); err != nil {
		return nil, fmt.Errorf("error listing sales for station %s: %w", stationID, err)
	}
	return transform.Map(rows, transform.ToSalesRecord), nil
}

const dateLayout = "2006-01-02"

func (r *operationsRepository) ListTankStocks(ctx context.Context, stationID string, from, to time.Time) ([]domain.TankStock, error) {
	query := `
		SELECT id, station_id, product_id, stock_date, opening_stock, closing_stock, deliveries
		FROM tank_stocks
		WHERE station_id = $1 AND stock_date >= $2::date AND stock_date < $3::date
		ORDER BY stock_date ASC
	`

	var rows []transform.TankStockRow
	// stock_date is a plain date; bound it by the calendar dates of the range.
	if err := r.db.SelectContext(ctx, &rows, query, stationID, from.Format(dateLayout), to.Format(dateLayout)); err != nil {
		return nil, fmt.Errorf("error listing tank stocks for station %s: %w", stationID, err)
	}
	return transform.Map(rows, transform.ToTankStock), nil
}

func (r *operationsRepository) ListCommissions(ctx context.Context, dealerID string) ([]domain.CommissionRecord, error) {
	query := `
		SELECT id, dealer_id, station_id, month, amount, windfall_amount,
			shortfall_amount, total_commission, status, paid_at
		FROM dealer_commissions
		WHERE dealer_id = $1
		ORDER BY month DESC
	`

	var rows []transform.CommissionRow
	if err := r.db.SelectContext(ctx, &rows, query, dealerID); err != nil {
		return nil, fmt.Errorf("error listing commissions for dealer %s: %w", dealerID, err)
	}
	return transform.Map(rows, transform.ToCommission), nil
}
