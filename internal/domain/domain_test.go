package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, want := range Roles() {
		got, ok := ParseRole(string(want))
		require.True(t, ok, want)
		assert.Equal(t, want, got)
	}

	for _, label := range []string{"superuser", " admin", "ADMIN", "Admin", "station-manager", "Station Manager"} {
		_, ok := ParseRole(label)
		assert.False(t, ok, label)
	}
	assert.False(t, Role("").Valid())
	assert.True(t, RoleAttendant.Valid())
}

func TestRolesIsACopy(t *testing.T) {
	roles := Roles()
	require.Len(t, roles, 7)
	roles[0] = "mutated"
	assert.Equal(t, RoleAdmin, Roles()[0])
}

func TestExpenseStatusTransitions(t *testing.T) {
	assert.True(t, ExpensePending.CanTransitionTo(ExpenseApproved))
	assert.True(t, ExpensePending.CanTransitionTo(ExpenseRejected))
	assert.False(t, ExpensePending.CanTransitionTo(ExpensePending))

	for _, from := range []ExpenseStatus{ExpenseApproved, ExpenseRejected} {
		assert.True(t, from.Terminal())
		for _, to := range []ExpenseStatus{ExpensePending, ExpenseApproved, ExpenseRejected} {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, ExpensePending.Terminal())
}

func TestParseStatuses(t *testing.T) {
	s, ok := ParseStationStatus("Maintenance")
	assert.True(t, ok)
	assert.Equal(t, StationMaintenance, s)

	c, ok := ParseComplianceStatus("non-compliant")
	assert.True(t, ok)
	assert.Equal(t, NonCompliant, c)

	_, ok = ParseExpenseStatus("paid")
	assert.False(t, ok)

	et, ok := ParseExpenseType(" STAFF")
	assert.True(t, ok)
	assert.Equal(t, ExpenseStaff, et)
	assert.Len(t, ExpenseTypes(), 5)
}

func TestCommissionStatus(t *testing.T) {
	assert.True(t, CommissionStatus("Paid").IsPaid())
	assert.False(t, CommissionPending.IsPaid())
	for _, s := range []CommissionStatus{"cancelled", "canceled", "REJECTED", "void"} {
		assert.True(t, s.IsVoid(), s)
	}
	assert.False(t, CommissionStatus("processing").IsVoid())
}

func TestMeterDeltaAndConsumed(t *testing.T) {
	assert.Equal(t, 50.0, SalesRecord{OpeningMeter: 100, ClosingMeter: 150}.MeterDelta())
	assert.Equal(t, 300.0, TankStock{OpeningStock: 1000, Deliveries: 500, ClosingStock: 1200}.Consumed())
}

func TestValidationError(t *testing.T) {
	var nilErr *ValidationError
	assert.False(t, nilErr.HasErrors())
	assert.NoError(t, NewValidationError().OrNil())

	v := NewValidationError()
	v.Add("amount", "must be positive")
	v.Add("amount", "second message is ignored")
	v.Add("category", "is required")

	err := v.OrNil()
	require.Error(t, err)
	assert.Equal(t, "validation failed: amount: must be positive; category: is required", err.Error())

	var target *ValidationError
	require.True(t, errors.As(err, &target))
	assert.Len(t, target.Fields, 2)
}
