package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/permission"
	"github.com/andresuchdata/stationops/backend-go/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseInput is a new expense as submitted by a user.
type ExpenseInput struct {
	StationID   string          `json:"station_id"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ExpenseDate *time.Time      `json:"expense_date"`
}

type ExpenseService struct {
	expenses repository.ExpenseRepository
	stations repository.StationRepository
	now      func() time.Time
}

func NewExpenseService(expenses repository.ExpenseRepository, stations repository.StationRepository) *ExpenseService {
	return &ExpenseService{expenses: expenses, stations: stations, now: time.Now}
}

// List returns the expenses visible to user. The own scope sees what it
// created; station scopes see the expenses of their stations.
func (s *ExpenseService) List(ctx context.Context, user domain.UserContext, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	scope := permission.ScopeFor(user)
	q := repository.ExpenseQuery{ExpenseFilter: filter}

	switch {
	case scope.RecordLevel():
		if user.ID == "" {
			return []domain.Expense{}, nil
		}
		q.CreatedBy = user.ID
		return s.expenses.ListExpenses(ctx, q)

	case scope.Scope == domain.ScopeAll:
		return s.expenses.ListExpenses(ctx, q)
	}

	stations, err := visibleStations(ctx, s.stations, user, domain.StationFilter{})
	if err != nil {
		return nil, fmt.Errorf("load visible stations: %w", err)
	}
	if len(stations) == 0 {
		return []domain.Expense{}, nil
	}

	q.StationIDs = make([]string, 0, len(stations))
	for _, st := range stations {
		q.StationIDs = append(q.StationIDs, st.ID)
	}

	expenses, err := s.expenses.ListExpenses(ctx, q)
	if err != nil {
		return nil, err
	}
	return permission.VisibleExpenses(user, expenses, stations), nil
}

// Create validates in and stores it. The expense is approved straight away
// when the creator could approve it themselves.
func (s *ExpenseService) Create(ctx context.Context, user domain.UserContext, in ExpenseInput) (*domain.Expense, error) {
	perms := permission.Resolve(user.Role)
	if !perms.CanCreate {
		return nil, fmt.Errorf("create expense: %w", domain.ErrForbidden)
	}

	verr := domain.NewValidationError()

	stationID := strings.TrimSpace(in.StationID)
	if stationID == "" {
		verr.Add("station_id", "is required")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		verr.Add("category", "is required")
	}
	expenseType, ok := domain.ParseExpenseType(in.Type)
	if !ok {
		verr.Add("type", "must be one of operational, fixed, staff, maintenance, other")
	}
	if !in.Amount.IsPositive() {
		verr.Add("amount", "must be greater than 0")
	} else if !permission.WithinMaxAmount(perms, in.Amount) {
		verr.Add("amount", fmt.Sprintf("exceeds the maximum of %s for your role", perms.MaxAmount.StringFixed(2)))
	}

	if stationID != "" {
		station, err := s.stations.GetStation(ctx, stationID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			verr.Add("station_id", "station does not exist")
		case err != nil:
			return nil, fmt.Errorf("load station %s: %w", stationID, err)
		case !permission.ScopeFor(user).Matches(*station):
			return nil, fmt.Errorf("create expense on station %s: %w", stationID, domain.ErrForbidden)
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	now := s.now()
	expense := domain.Expense{
		ID:          uuid.NewString(),
		StationID:   stationID,
		Category:    category,
		Type:        expenseType,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		ExpenseDate: now,
		Status:      permission.InitialExpenseStatus(perms, in.Amount),
		CreatedBy:   user.ID,
		CreatedAt:   now,
	}
	if in.ExpenseDate != nil && !in.ExpenseDate.IsZero() {
		expense.ExpenseDate = *in.ExpenseDate
	}
	if expense.Status == domain.ExpenseApproved {
		expense.ApprovedBy = user.ID
		expense.ApprovedAt = &now
	}

	if err := s.expenses.CreateExpense(ctx, &expense); err != nil {
		return nil, err
	}

	log.Info().
		Str("expense_id", expense.ID).
		Str("station_id", expense.StationID).
		Str("status", string(expense.Status)).
		Msg("expense created")

	return &expense, nil
}

func (s *ExpenseService) Approve(ctx context.Context, user domain.UserContext, id string) (*domain.Expense, error) {
	return s.transition(ctx, user, id, domain.ExpenseApproved, "")
}

// Reject moves a pending expense to rejected. A reason is required.
func (s *ExpenseService) Reject(ctx context.Context, user domain.UserContext, id, reason string) (*domain.Expense, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		verr := domain.NewValidationError()
		verr.Add("reason", "is required")
		return nil, verr
	}
	return s.transition(ctx, user, id, domain.ExpenseRejected, reason)
}

func (s *ExpenseService) transition(ctx context.Context, user domain.UserContext, id string, to domain.ExpenseStatus, reason string) (*domain.Expense, error) {
	expense, err := s.expenses.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	station, err := s.stations.GetStation(ctx, expense.StationID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load station %s: %w", expense.StationID, err)
	}
	var st domain.Station
	if station != nil {
		st = *station
	}
	if !permission.ExpenseVisible(user, *expense, st) {
		return nil, fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
	}

	perms := permission.Resolve(user.Role)
	if !permission.CanApproveExpense(perms, expense.Amount) {
		return nil, fmt.Errorf("%s expense %s: %w", verb(to), id, domain.ErrForbidden)
	}
	if !expense.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("expense %s is %s: %w", id, expense.Status, domain.ErrInvalidTransition)
	}

	updated, err := s.expenses.UpdateExpenseStatus(ctx, id, repository.StatusChange{
		From:            expense.Status,
		To:              to,
		ActorID:         user.ID,
		RejectionReason: reason,
		At:              s.now(),
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("expense_id", id).Str("status", string(to)).Str("actor", user.ID).Msg("expense reviewed")
	return updated, nil
}

func verb(to domain.ExpenseStatus) string {
	if to == domain.ExpenseRejected {
		return "reject"
	}
	return "approve"
}

// Summary totals the expenses visible to user.
func (s *ExpenseService) Summary(ctx context.Context, user domain.UserContext, filter domain.ExpenseFilter) (*domain.ExpenseSummary, error) {
	expenses, err := s.List(ctx, user, filter)
	if err != nil {
		return nil, err
	}
	summary := SummarizeExpenses(expenses)
	return &summary, nil
}

// SummarizeExpenses totals expenses overall, by status and by type.
func SummarizeExpenses(expenses []domain.Expense) domain.ExpenseSummary {
	summary := domain.ExpenseSummary{
		Total:    decimal.Zero,
		ByStatus: make(map[domain.ExpenseStatus]decimal.Decimal),
		ByType:   make(map[domain.ExpenseType]decimal.Decimal),
	}
	for _, e := range expenses {
		summary.Count++
		summary.Total = summary.Total.Add(e.Amount)
		summary.ByStatus[e.Status] = summary.ByStatus[e.Status].Add(e.Amount)
		summary.ByType[e.Type] = summary.ByType[e.Type].Add(e.Amount)
	}
	return summary
}
