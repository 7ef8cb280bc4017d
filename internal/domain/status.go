package domain

import "strings"

type StationStatus string

const (
	StationActive      StationStatus = "active"
	StationInactive    StationStatus = "inactive"
	StationMaintenance StationStatus = "maintenance"
)

type ComplianceStatus string

const (
	Compliant    ComplianceStatus = "compliant"
	NonCompliant ComplianceStatus = "non_compliant"
	UnderReview  ComplianceStatus = "under_review"
)

type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
)

type ExpenseType string

const (
	ExpenseOperational ExpenseType = "operational"
	ExpenseFixed       ExpenseType = "fixed"
	ExpenseStaff       ExpenseType = "staff"
	ExpenseMaintenance ExpenseType = "maintenance"
	ExpenseOther       ExpenseType = "other"
)

type CommissionStatus string

const (
	CommissionPaid      CommissionStatus = "paid"
	CommissionPending   CommissionStatus = "pending"
	CommissionCancelled CommissionStatus = "cancelled"
)

var stationStatuses = map[string]StationStatus{
	"active":      StationActive,
	"inactive":    StationInactive,
	"maintenance": StationMaintenance,
}

var complianceStatuses = map[string]ComplianceStatus{
	"compliant":     Compliant,
	"non_compliant": NonCompliant,
	"noncompliant":  NonCompliant,
	"under_review":  UnderReview,
}

var expenseStatuses = map[string]ExpenseStatus{
	"pending":  ExpensePending,
	"approved": ExpenseApproved,
	"rejected": ExpenseRejected,
}

var expenseTypes = map[string]ExpenseType{
	"operational": ExpenseOperational,
	"fixed":       ExpenseFixed,
	"staff":       ExpenseStaff,
	"maintenance": ExpenseMaintenance,
	"other":       ExpenseOther,
}

// excluded from paid/pending totals
var voidCommissionStatuses = map[string]bool{
	"cancelled": true,
	"canceled":  true,
	"rejected":  true,
	"void":      true,
}

func normalizeLabel(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), "-", "_")
}

// ParseStationStatus returns the station status for a label (case-insensitive).
func ParseStationStatus(label string) (StationStatus, bool) {
	s, ok := stationStatuses[normalizeLabel(label)]
	return s, ok
}

// ParseComplianceStatus returns the compliance status for a label (case-insensitive).
func ParseComplianceStatus(label string) (ComplianceStatus, bool) {
	s, ok := complianceStatuses[normalizeLabel(label)]
	return s, ok
}

// ParseExpenseStatus returns the expense status for a label (case-insensitive).
func ParseExpenseStatus(label string) (ExpenseStatus, bool) {
	s, ok := expenseStatuses[normalizeLabel(label)]
	return s, ok
}

// ParseExpenseType returns the expense type for a label (case-insensitive).
func ParseExpenseType(label string) (ExpenseType, bool) {
	t, ok := expenseTypes[normalizeLabel(label)]
	return t, ok
}

// ExpenseTypes lists the accepted expense types.
func ExpenseTypes() []ExpenseType {
	return []ExpenseType{ExpenseOperational, ExpenseFixed, ExpenseStaff, ExpenseMaintenance, ExpenseOther}
}

// CanTransitionTo reports whether an expense in status s may move to next.
// Only pending expenses move, and only to approved or rejected.
func (s ExpenseStatus) CanTransitionTo(next ExpenseStatus) bool {
	if s != ExpensePending {
		return false
	}
	return next == ExpenseApproved || next == ExpenseRejected
}

// Terminal reports whether no further transition is allowed from s.
func (s ExpenseStatus) Terminal() bool {
	return s == ExpenseApproved || s == ExpenseRejected
}

// IsPaid reports whether a commission status counts as paid.
func (s CommissionStatus) IsPaid() bool {
	return normalizeLabel(string(s)) == string(CommissionPaid)
}

// IsVoid reports whether a commission status is excluded from totals.
func (s CommissionStatus) IsVoid() bool {
	return voidCommissionStatuses[normalizeLabel(string(s))]
}
