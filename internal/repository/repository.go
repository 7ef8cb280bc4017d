// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
)

// StationQuery narrows a station listing. Empty scoping fields are
// unrestricted; a non-nil StationIDs restricts to those ids, so an empty
// non-nil slice matches nothing.
type StationQuery struct {
	domain.StationFilter
	OMCID      string
	DealerID   string
	StationIDs []string
}

// ExpenseQuery narrows an expense listing. A non-nil StationIDs restricts to
// those stations; CreatedBy restricts to one creator.
type ExpenseQuery struct {
	domain.ExpenseFilter
	StationIDs []string
	CreatedBy  string
}

// StatusChange moves an expense out of pending.
type StatusChange struct {
	From            domain.ExpenseStatus
	To              domain.ExpenseStatus
	ActorID         string
	RejectionReason string
	At              time.Time
}

type StationRepository interface {
	ListStations(ctx context.Context, q StationQuery) ([]domain.Station, error)
	GetStation(ctx context.Context, id string) (*domain.Station, error)
	CreateStation(ctx context.Context, station *domain.Station) error
	UpdateStation(ctx context.Context, station *domain.Station) error
	DeleteStation(ctx context.Context, id string) error
}

// OperationsRepository reads the meter, dip and commission records the
// metrics are computed from. Ranges are [from, to).
type OperationsRepository interface {
	ListSales(ctx context.Context, stationID string, from, to time.Time) ([]domain.SalesRecord, error)
	ListTankStocks(ctx context.Context, stationID string, from, to time.Time) ([]domain.TankStock, error)
	ListCommissions(ctx context.Context, dealerID string) ([]domain.CommissionRecord, error)
}

type ExpenseRepository interface {
	ListExpenses(ctx context.Context, q ExpenseQuery) ([]domain.Expense, error)
	GetExpense(ctx context.Context, id string) (*domain.Expense, error)
	CreateExpense(ctx context.Context, expense *domain.Expense) error
	// UpdateExpenseStatus applies change only while the stored status is
	// change.From; otherwise it returns domain.ErrInvalidTransition.
	UpdateExpenseStatus(ctx context.Context, id string, change StatusChange) (*domain.Expense, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, id string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, profile *domain.UserProfile) error
}
