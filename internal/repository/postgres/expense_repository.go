package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/repository"
	"github.com/andresuchdata/stationops/backend-go/internal/transform"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const expenseColumns = `id, station_id, category, type, amount, description, expense_date,
	status, created_by, approved_by, approved_at, rejection_reason, created_at`

type expenseRepository struct {
	db *DB
}

func NewExpenseRepository(db *DB) repository.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) ListExpenses(ctx context.Context, q repository.ExpenseQuery) ([]domain.Expense, error) {
	var w whereBuilder
	if q.StationIDs != nil {
		w.add("station_id = ANY(?::text[])", pq.Array(q.StationIDs))
	}
	w.addIf("created_by = ?", q.CreatedBy)
	w.addIf("station_id = ?", q.StationID)
	w.addIf("status = ?", q.Status)
	w.addIf("type = ?", q.Type)
	w.addIf("expense_date >= ?::date", q.From)
	w.addIf("expense_date <= ?::date", q.To)

	query := "SELECT " + expenseColumns + " FROM expenses" + w.clause() + " ORDER BY expense_date DESC, created_at DESC"

	var rows []transform.ExpenseRow
	if err := r.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("error listing expenses: %w", err)
	}
	return transform.Map(rows, transform.ToExpense), nil
}

func (r *expenseRepository) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	return getExpense(ctx, r.db, id, "")
}

func (r *expenseRepository) CreateExpense(ctx context.Context, e *domain.Expense) error {
	query := `
		INSERT INTO expenses (
			id, station_id, category, type, amount, description, expense_date,
			status, created_by, approved_by, approved_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.StationID, e.Category, e.Type, e.Amount, nullString(e.Description), e.ExpenseDate,
		e.Status, e.CreatedBy, nullString(e.ApprovedBy), e.ApprovedAt, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

func (r *expenseRepository) UpdateExpenseStatus(ctx context.Context, id string, change repository.StatusChange) (*domain.Expense, error) {
	var updated *domain.Expense
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := getExpense(ctx, tx, id, " FOR UPDATE")
		if err != nil {
			return err
		}
		if current.Status != change.From || !current.Status.CanTransitionTo(change.To) {
			return fmt.Errorf("expense %s is %s: %w", id, current.Status, domain.ErrInvalidTransition)
		}

		query := `
			UPDATE expenses SET
				status = $2,
				approved_by = $3,
				approved_at = $4,
				rejection_reason = $5,
				updated_at = NOW()
			WHERE id = $1 AND status = $6
		`
		res, err := tx.ExecContext(ctx, query,
			id, change.To, change.ActorID, change.At, nullString(change.RejectionReason), change.From,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense %s: %w", id, err)
		}
		if err := requireAffected(res, "expense", id); err != nil {
			return err
		}

		current.Status = change.To
		current.ApprovedBy = change.ActorID
		at := change.At
		current.ApprovedAt = &at
		current.RejectionReason = change.RejectionReason
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func getExpense(ctx context.Context, q sqlx.QueryerContext, id, suffix string) (*domain.Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses WHERE id = $1" + suffix

	var row transform.ExpenseRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("error getting expense %s: %w", id, err)
	}

	expense := transform.ToExpense(row)
	return &expense, nil
}
