package domain

import "github.com/shopspring/decimal"

// Role is the closed set of user roles known to the platform.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleNPA            Role = "npa"
	RoleOMC            Role = "omc"
	RoleDealer         Role = "dealer"
	RoleStationManager Role = "station_manager"
	RoleSupervisor     Role = "supervisor"
	RoleAttendant      Role = "attendant"
)

var knownRoles = []Role{
	RoleAdmin,
	RoleNPA,
	RoleOMC,
	RoleDealer,
	RoleStationManager,
	RoleSupervisor,
	RoleAttendant,
}

// Roles returns every known role, most privileged first.
func Roles() []Role {
	out := make([]Role, len(knownRoles))
	copy(out, knownRoles)
	return out
}

// ParseRole returns the role for an exact label. Labels differing in case or
// separators are not roles.
func ParseRole(label string) (Role, bool) {
	for _, r := range knownRoles {
		if string(r) == label {
			return r, true
		}
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// ViewScope bounds which records a role may read.
type ViewScope string

const (
	ScopeAll     ViewScope = "all"
	ScopeOMC     ViewScope = "omc"
	ScopeDealer  ViewScope = "dealer"
	ScopeStation ViewScope = "station"
	ScopeOwn     ViewScope = "own"
)

// RolePermissions is the capability record derived from a role.
// A nil ApprovalLimit or MaxAmount means no limit.
type RolePermissions struct {
	CanView            bool             `json:"can_view"`
	CanCreate          bool             `json:"can_create"`
	CanEdit            bool             `json:"can_edit"`
	CanDelete          bool             `json:"can_delete"`
	CanApprove         bool             `json:"can_approve"`
	CanManageStations  bool             `json:"can_manage_stations"`
	CanViewAllStations bool             `json:"can_view_all_stations"`
	CanManageUsers     bool             `json:"can_manage_users"`
	ViewScope          ViewScope        `json:"view_scope"`
	ApprovalLimit      *decimal.Decimal `json:"approval_limit,omitempty"`
	MaxAmount          *decimal.Decimal `json:"max_amount,omitempty"`
}

// UserContext identifies the caller and the entities their role is scoped to.
type UserContext struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	OMCID     string `json:"omc_id,omitempty"`
	DealerID  string `json:"dealer_id,omitempty"`
	StationID string `json:"station_id,omitempty"`
}
