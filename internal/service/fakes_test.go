package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/repository"
)

type fakeStationRepo struct {
	mu       sync.Mutex
	stations map[string]domain.Station
	listErr  error
	queries  []repository.StationQuery
	writes   int
}

func newFakeStationRepo(stations ...domain.Station) *fakeStationRepo {
	r := &fakeStationRepo{stations: make(map[string]domain.Station)}
	for _, s := range stations {
		r.stations[s.ID] = s
	}
	return r
}

func (r *fakeStationRepo) ListStations(_ context.Context, q repository.StationQuery) ([]domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	if r.listErr != nil {
		return nil, r.listErr
	}

	var allowed map[string]bool
	if q.StationIDs != nil {
		allowed = make(map[string]bool)
		for _, id := range q.StationIDs {
			allowed[id] = true
		}
	}

	out := []domain.Station{}
	for _, s := range r.stations {
		if q.OMCID != "" && s.OMCID != q.OMCID {
			continue
		}
		if q.DealerID != "" && s.DealerID != q.DealerID {
			continue
		}
		if allowed != nil && !allowed[s.ID] {
			continue
		}
		if q.Region != "" && s.Region != q.Region {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeStationRepo) GetStation(_ context.Context, id string) (*domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stations[id]
	if !ok {
		return nil, fmt.Errorf("station %s: %w", id, domain.ErrNotFound)
	}
	return &s, nil
}

func (r *fakeStationRepo) CreateStation(_ context.Context, s *domain.Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.stations[s.ID] = *s
	return nil
}

func (r *fakeStationRepo) UpdateStation(_ context.Context, s *domain.Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if _, ok := r.stations[s.ID]; !ok {
		return domain.ErrNotFound
	}
	r.stations[s.ID] = *s
	return nil
}

func (r *fakeStationRepo) DeleteStation(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	delete(r.stations, id)
	return nil
}

type fakeOpsRepo struct {
	sales       map[string][]domain.SalesRecord
	stocks      map[string][]domain.TankStock
	commissions map[string][]domain.CommissionRecord
	failSales   map[string]error
	commErr     error
}

func newFakeOpsRepo() *fakeOpsRepo {
	return &fakeOpsRepo{
		sales:       make(map[string][]domain.SalesRecord),
		stocks:      make(map[string][]domain.TankStock),
		commissions: make(map[string][]domain.CommissionRecord),
		failSales:   make(map[string]error),
	}
}

func (r *fakeOpsRepo) ListSales(_ context.Context, stationID string, from, to time.Time) ([]domain.SalesRecord, error) {
	if err := r.failSales[stationID]; err != nil {
		return nil, err
	}
	var out []domain.SalesRecord
	for _, s := range r.sales[stationID] {
		if !s.SaleDate.Before(from) && s.SaleDate.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeOpsRepo) ListTankStocks(_ context.Context, stationID string, from, to time.Time) ([]domain.TankStock, error) {
	var out []domain.TankStock
	for _, s := range r.stocks[stationID] {
		if !s.StockDate.Before(from) && s.StockDate.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeOpsRepo) ListCommissions(_ context.Context, dealerID string) ([]domain.CommissionRecord, error) {
	if r.commErr != nil {
		return nil, r.commErr
	}
	return r.commissions[dealerID], nil
}

type fakeExpenseRepo struct {
	mu       sync.Mutex
	expenses map[string]domain.Expense
	queries  []repository.ExpenseQuery
	writes   int
}

func newFakeExpenseRepo(expenses ...domain.Expense) *fakeExpenseRepo {
	r := &fakeExpenseRepo{expenses: make(map[string]domain.Expense)}
	for _, e := range expenses {
		r.expenses[e.ID] = e
	}
	return r
}

func (r *fakeExpenseRepo) ListExpenses(_ context.Context, q repository.ExpenseQuery) ([]domain.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)

	var allowed map[string]bool
	if q.StationIDs != nil {
		allowed = make(map[string]bool)
		for _, id := range q.StationIDs {
			allowed[id] = true
		}
	}

	out := []domain.Expense{}
	for _, e := range r.expenses {
		if allowed != nil && !allowed[e.StationID] {
			continue
		}
		if q.CreatedBy != "" && e.CreatedBy != q.CreatedBy {
			continue
		}
		if q.Status != "" && string(e.Status) != q.Status {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeExpenseRepo) GetExpense(_ context.Context, id string) (*domain.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.expenses[id]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
	}
	return &e, nil
}

func (r *fakeExpenseRepo) CreateExpense(_ context.Context, e *domain.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.expenses[e.ID] = *e
	return nil
}

func (r *fakeExpenseRepo) UpdateExpenseStatus(_ context.Context, id string, change repository.StatusChange) (*domain.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	e, ok := r.expenses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if e.Status != change.From {
		return nil, domain.ErrInvalidTransition
	}
	e.Status = change.To
	e.ApprovedBy = change.ActorID
	at := change.At
	e.ApprovedAt = &at
	e.RejectionReason = change.RejectionReason
	r.expenses[id] = e
	return &e, nil
}

type fakeProfileRepo struct {
	profiles map[string]domain.UserProfile
	updates  int
}

func (r *fakeProfileRepo) GetProfile(_ context.Context, id string) (*domain.UserProfile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *fakeProfileRepo) UpdateProfile(_ context.Context, p *domain.UserProfile) error {
	r.updates++
	r.profiles[p.ID] = *p
	return nil
}

// countingDashboardCache records how often the dashboard cache is hit.
type countingDashboardCache struct {
	mu          sync.Mutex
	entries     map[string]*domain.DealerDashboard
	sets        int
	invalidated int
}

func newCountingDashboardCache() *countingDashboardCache {
	return &countingDashboardCache{entries: make(map[string]*domain.DealerDashboard)}
}

func (c *countingDashboardCache) GetDashboard(_ context.Context, user domain.UserContext, period string) (*domain.DealerDashboard, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[user.ID+"|"+period]
	return d, ok, nil
}

func (c *countingDashboardCache) SetDashboard(_ context.Context, user domain.UserContext, period string, d *domain.DealerDashboard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[user.ID+"|"+period] = d
	return nil
}

func (c *countingDashboardCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.entries = make(map[string]*domain.DealerDashboard)
	return nil
}

var errUpstream = errors.New("upstream timeout")
