package permission

import (
	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// ownsStation is the mutate scope: admin owns every station, omc and dealer
// own stations carrying their exact id, every other role owns nothing.
func ownsStation(user domain.UserContext, station domain.Station) bool {
	switch EffectiveRole(user.Role) {
	case domain.RoleAdmin:
		return true
	case domain.RoleOMC:
		return user.OMCID != "" && station.OMCID == user.OMCID
	case domain.RoleDealer:
		return user.DealerID != "" && station.DealerID == user.DealerID
	default:
		return false
	}
}

// CanCreateStation reports whether user may create station as submitted.
func CanCreateStation(user domain.UserContext, station domain.Station) bool {
	perms := Resolve(user.Role)
	return perms.CanCreate && perms.CanManageStations && ownsStation(user, station)
}

// CanEditStation reports whether user may edit station.
func CanEditStation(user domain.UserContext, station domain.Station) bool {
	perms := Resolve(user.Role)
	return perms.CanEdit && perms.CanManageStations && ownsStation(user, station)
}

// CanDeleteStation reports whether user may delete station.
func CanDeleteStation(user domain.UserContext, station domain.Station) bool {
	perms := Resolve(user.Role)
	return perms.CanDelete && perms.CanManageStations && ownsStation(user, station)
}

// WithinApprovalLimit reports whether amount is covered by the approval limit.
func WithinApprovalLimit(perms domain.RolePermissions, amount decimal.Decimal) bool {
	return perms.ApprovalLimit == nil || amount.LessThanOrEqual(*perms.ApprovalLimit)
}

// WithinMaxAmount reports whether amount may be submitted at all.
func WithinMaxAmount(perms domain.RolePermissions, amount decimal.Decimal) bool {
	return perms.MaxAmount == nil || amount.LessThanOrEqual(*perms.MaxAmount)
}

// CanApproveExpense reports whether perms may approve or reject an expense of amount.
func CanApproveExpense(perms domain.RolePermissions, amount decimal.Decimal) bool {
	return perms.CanApprove && WithinApprovalLimit(perms, amount)
}

// InitialExpenseStatus is the status a new expense of amount gets when
// created by a holder of perms.
func InitialExpenseStatus(perms domain.RolePermissions, amount decimal.Decimal) domain.ExpenseStatus {
	if CanApproveExpense(perms, amount) {
		return domain.ExpenseApproved
	}
	return domain.ExpensePending
}

// Outranks reports whether role a holds strictly more privilege than role b.
func Outranks(a, b domain.Role) bool {
	return rank(EffectiveRole(a)) < rank(EffectiveRole(b))
}

func rank(role domain.Role) int {
	for i, r := range domain.Roles() {
		if r == role {
			return i
		}
	}
	return len(domain.Roles())
}

// ProfileInScope reports whether target is inside the view scope of user.
// station is the station target is assigned to, nil when it has none.
func ProfileInScope(user domain.UserContext, target domain.UserProfile, station *domain.Station) bool {
	if user.ID != "" && target.ID == user.ID {
		return true
	}
	scope := ScopeFor(user)
	if scope.Empty() {
		return false
	}
	switch scope.Scope {
	case domain.ScopeAll:
		return true
	case domain.ScopeOMC:
		return target.OMCID == scope.OMCID || (station != nil && station.OMCID == scope.OMCID)
	case domain.ScopeDealer:
		return target.DealerID == scope.DealerID || (station != nil && station.DealerID == scope.DealerID)
	case domain.ScopeStation:
		return target.StationID == scope.StationID
	default:
		return false
	}
}

// CanManageProfile reports whether user may read or edit the profile of a
// user holding role target. Outside the all scope only lower roles qualify.
func CanManageProfile(user domain.UserContext, target domain.Role) bool {
	perms := Resolve(user.Role)
	if !perms.CanManageUsers {
		return false
	}
	return perms.ViewScope == domain.ScopeAll || Outranks(user.Role, target)
}

// CanAssignOMC reports whether user may put a station under omcID. A dealer
// may only use an OMC already running one of its stations; dealerStations
// holds the dealer's stations and is ignored for other roles.
func CanAssignOMC(user domain.UserContext, omcID string, dealerStations []domain.Station) bool {
	switch EffectiveRole(user.Role) {
	case domain.RoleAdmin:
		return true
	case domain.RoleOMC:
		return user.OMCID != "" && omcID == user.OMCID
	case domain.RoleDealer:
		if user.DealerID == "" {
			return false
		}
		for _, st := range dealerStations {
			if st.DealerID == user.DealerID && st.OMCID == omcID {
				return true
			}
		}
		return false
	default:
		return false
	}
}
