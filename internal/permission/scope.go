package permission

import "github.com/andresuchdata/stationops/backend-go/internal/domain"

// StationScope is the station-level visibility of a user, ready to be pushed
// down into a repository query or applied in memory.
type StationScope struct {
	Scope     domain.ViewScope
	OMCID     string
	DealerID  string
	StationID string
	// UserID is used by the own scope on record-level filters.
	UserID string
}

// ScopeFor derives the scope of user from their resolved role.
func ScopeFor(user domain.UserContext) StationScope {
	perms := Resolve(user.Role)
	return StationScope{
		Scope:     perms.ViewScope,
		OMCID:     user.OMCID,
		DealerID:  user.DealerID,
		StationID: user.StationID,
		UserID:    user.ID,
	}
}

// Empty reports whether the scope can never match a station because the user
// lacks the scoping id their role requires.
func (s StationScope) Empty() bool {
	switch s.Scope {
	case domain.ScopeOMC:
		return s.OMCID == ""
	case domain.ScopeDealer:
		return s.DealerID == ""
	case domain.ScopeStation:
		return s.StationID == ""
	case domain.ScopeAll, domain.ScopeOwn:
		return false
	default:
		return true
	}
}

// Matches reports whether station is visible under the scope.
// The own scope applies no station-level filter.
func (s StationScope) Matches(station domain.Station) bool {
	if s.Empty() {
		return false
	}
	switch s.Scope {
	case domain.ScopeAll, domain.ScopeOwn:
		return true
	case domain.ScopeOMC:
		return station.OMCID == s.OMCID
	case domain.ScopeDealer:
		return station.DealerID == s.DealerID
	case domain.ScopeStation:
		return station.ID == s.StationID
	default:
		return false
	}
}

// RecordLevel reports whether records must additionally be filtered on their creator.
func (s StationScope) RecordLevel() bool {
	return s.Scope == domain.ScopeOwn
}

// VisibleStations returns the stations user may see, preserving input order.
func VisibleStations(user domain.UserContext, stations []domain.Station) []domain.Station {
	scope := ScopeFor(user)
	visible := make([]domain.Station, 0, len(stations))
	for _, st := range stations {
		if scope.Matches(st) {
			visible = append(visible, st)
		}
	}
	return visible
}

// VisibleExpenses returns the expenses user may see. stations is the full set
// the expenses reference; an expense whose station is unknown is only visible
// under the all and own scopes.
func VisibleExpenses(user domain.UserContext, expenses []domain.Expense, stations []domain.Station) []domain.Expense {
	scope := ScopeFor(user)
	visible := make([]domain.Expense, 0, len(expenses))

	if scope.RecordLevel() {
		for _, e := range expenses {
			if user.ID != "" && e.CreatedBy == user.ID {
				visible = append(visible, e)
			}
		}
		return visible
	}

	if scope.Scope == domain.ScopeAll {
		return append(visible, expenses...)
	}

	allowed := make(map[string]struct{})
	for _, st := range stations {
		if scope.Matches(st) {
			allowed[st.ID] = struct{}{}
		}
	}
	for _, e := range expenses {
		if _, ok := allowed[e.StationID]; ok {
			visible = append(visible, e)
		}
	}
	return visible
}

// ExpenseVisible reports whether a single expense on station is visible to user.
func ExpenseVisible(user domain.UserContext, expense domain.Expense, station domain.Station) bool {
	scope := ScopeFor(user)
	if scope.RecordLevel() {
		return user.ID != "" && expense.CreatedBy == user.ID
	}
	return scope.Matches(station)
}
