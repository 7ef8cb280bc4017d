// Package permission maps roles to capabilities and applies role scopes to
// station and expense record sets. Everything here is pure and safe for
// concurrent use.
package permission

import (
	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// fallbackRole is applied to unknown or missing roles.
const fallbackRole = domain.RoleAttendant

func amount(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

var roleTable = map[domain.Role]domain.RolePermissions{
	domain.RoleAdmin: {
		CanView:            true,
		CanCreate:          true,
		CanEdit:            true,
		CanDelete:          true,
		CanApprove:         true,
		CanManageStations:  true,
		CanViewAllStations: true,
		CanManageUsers:     true,
		ViewScope:          domain.ScopeAll,
	},
	domain.RoleNPA: {
		CanView:            true,
		CanViewAllStations: true,
		ViewScope:          domain.ScopeAll,
	},
	domain.RoleOMC: {
		CanView:           true,
		CanCreate:         true,
		CanEdit:           true,
		CanDelete:         true,
		CanApprove:        true,
		CanManageStations: true,
		CanManageUsers:    true,
		ViewScope:         domain.ScopeOMC,
		ApprovalLimit:     amount(50000),
	},
	domain.RoleDealer: {
		CanView:           true,
		CanCreate:         true,
		CanEdit:           true,
		CanDelete:         true,
		CanApprove:        true,
		CanManageStations: true,
		CanManageUsers:    true,
		ViewScope:         domain.ScopeDealer,
		ApprovalLimit:     amount(10000),
	},
	domain.RoleStationManager: {
		CanView:       true,
		CanCreate:     true,
		CanEdit:       true,
		CanApprove:    true,
		ViewScope:     domain.ScopeStation,
		ApprovalLimit: amount(2000),
		MaxAmount:     amount(5000),
	},
	domain.RoleSupervisor: {
		CanView:   true,
		CanCreate: true,
		ViewScope: domain.ScopeStation,
		MaxAmount: amount(1000),
	},
	domain.RoleAttendant: {
		CanView:   true,
		ViewScope: domain.ScopeOwn,
	},
}

// Resolve returns the capability record for role. Unknown roles get the
// attendant profile. The returned value shares no memory with the table.
func Resolve(role domain.Role) domain.RolePermissions {
	key, ok := domain.ParseRole(string(role))
	if !ok {
		key = fallbackRole
	}
	return clone(roleTable[key])
}

// EffectiveRole returns the role Resolve would apply for role.
func EffectiveRole(role domain.Role) domain.Role {
	if key, ok := domain.ParseRole(string(role)); ok {
		return key
	}
	return fallbackRole
}

// Table returns the full role to permission mapping, one entry per known role.
func Table() map[domain.Role]domain.RolePermissions {
	out := make(map[domain.Role]domain.RolePermissions, len(roleTable))
	for role, perms := range roleTable {
		out[role] = clone(perms)
	}
	return out
}

func clone(p domain.RolePermissions) domain.RolePermissions {
	if p.ApprovalLimit != nil {
		v := *p.ApprovalLimit
		p.ApprovalLimit = &v
	}
	if p.MaxAmount != nil {
		v := *p.MaxAmount
		p.MaxAmount = &v
	}
	return p
}
