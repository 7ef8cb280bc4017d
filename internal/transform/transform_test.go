package transform

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	var payload struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
		E Number `json:"e"`
		F Number `json:"f"`
		G Number `json:"g"`
	}
	raw := `{"a": 12.5, "b": "7.25", "c": null, "d": "", "e": "1,250.50", "f": "n/a"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	assert.Equal(t, 12.5, payload.A.Float64())
	assert.Equal(t, 7.25, payload.B.Float64())
	assert.Zero(t, payload.C.Float64())
	assert.Zero(t, payload.D.Float64())
	assert.Equal(t, 1250.5, payload.E.Float64())
	assert.Zero(t, payload.F.Float64())
	assert.Zero(t, payload.G.Float64(), "missing field")
}

func TestNumber_Scan(t *testing.T) {
	cases := []struct {
		src  any
		want float64
	}{
		{nil, 0},
		{float64(3.5), 3.5},
		{int64(42), 42},
		{[]byte("19.99"), 19.99},
		{"8", 8},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		var n Number
		require.NoError(t, n.Scan(tc.src))
		assert.Equal(t, tc.want, n.Float64(), "%v", tc.src)
	}

	var n Number
	assert.Error(t, n.Scan(true))
}

func TestNumber_KeepsDecimalPrecision(t *testing.T) {
	var n Number
	require.NoError(t, json.Unmarshal([]byte(`"0.1"`), &n))
	assert.True(t, n.Decimal().Equal(decimal.RequireFromString("0.1")))
}

func TestText_AcceptsNumericIDs(t *testing.T) {
	var row StationRow
	require.NoError(t, json.Unmarshal([]byte(`{"id": 17, "name": " Airport ", "dealer_id": null}`), &row))
	assert.Equal(t, "17", row.ID.String())
	assert.Equal(t, "Airport", row.Name.String())
	assert.Empty(t, row.DealerID.String())

	var month Text
	require.NoError(t, month.Scan(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-10-01", month.String())
}

func TestTime_Layouts(t *testing.T) {
	for _, in := range []string{`"2026-10-14"`, `"2026-10-14T08:30:00Z"`, `"2026-10-14 08:30:00"`} {
		var ts Time
		require.NoError(t, json.Unmarshal([]byte(in), &ts), in)
		assert.Equal(t, 2026, ts.Year(), in)
		assert.Equal(t, 14, ts.Day(), in)
	}

	var ts Time
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
	assert.Nil(t, ts.Ptr())

	require.NoError(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.True(t, ts.IsZero())
}

func TestToStation_Defaults(t *testing.T) {
	cases := []struct {
		status, compliance string
		wantStatus         domain.StationStatus
		wantCompliance     domain.ComplianceStatus
	}{
		{"", "", domain.StationActive, domain.UnderReview},
		{"MAINTENANCE", "compliant", domain.StationMaintenance, domain.Compliant},
		{"closed", "flagged", domain.StationInactive, domain.UnderReview},
	}
	for _, tc := range cases {
		got := ToStation(StationRow{ID: "S1", Status: Text(tc.status), ComplianceStatus: Text(tc.compliance)})
		assert.Equal(t, tc.wantStatus, got.Status, tc.status)
		assert.Equal(t, tc.wantCompliance, got.ComplianceStatus, tc.compliance)
	}
}

func TestToStation_FromJSON(t *testing.T) {
	raw := `{"id":"S1","name":"Ring Road","code":"RR-01","region":"Greater Accra","omc_id":"O1","dealer_id":"D1",
		"status":"active","compliance_status":"non_compliant","total_sales":"15000.75","total_violations":2}`
	var row StationRow
	require.NoError(t, json.Unmarshal([]byte(raw), &row))

	got := ToStation(row)
	assert.Equal(t, domain.Station{
		ID: "S1", Name: "Ring Road", Code: "RR-01", Region: "Greater Accra", OMCID: "O1", DealerID: "D1",
		Status: domain.StationActive, ComplianceStatus: domain.NonCompliant, TotalSales: 15000.75, TotalViolations: 2,
	}, got)
}

func TestToTankStock_DeliveriesAlias(t *testing.T) {
	decode := func(raw string) domain.TankStock {
		var row TankStockRow
		require.NoError(t, json.Unmarshal([]byte(raw), &row))
		return ToTankStock(row)
	}

	assert.Equal(t, 500.0, decode(`{"deliveries": 500}`).Deliveries)
	assert.Equal(t, 300.0, decode(`{"received_stock": "300"}`).Deliveries)
	assert.Equal(t, 500.0, decode(`{"deliveries": 500, "received_stock": 300}`).Deliveries)
	assert.Equal(t, 300.0, decode(`{"deliveries": null, "received_stock": 300}`).Deliveries)
	assert.Zero(t, decode(`{"opening_stock": 10}`).Deliveries)
}

func TestToExpense_Defaults(t *testing.T) {
	got := ToExpense(ExpenseRow{ID: "E1", Type: "fuel", Status: "archived", Amount: NewNumber(125.5)})
	assert.Equal(t, domain.ExpenseOther, got.Type)
	assert.Equal(t, domain.ExpensePending, got.Status)
	assert.True(t, got.Amount.Equal(decimal.NewFromFloat(125.5)))
	assert.Nil(t, got.ApprovedAt)
}

func TestToCommission(t *testing.T) {
	raw := `{"id":"C1","dealer_id":"D1","month":"2026-10","amount":"100","windfall_amount":10,
		"shortfall_amount":null,"total_commission":"110","status":"PAID","paid_at":"2026-10-05"}`
	var row CommissionRow
	require.NoError(t, json.Unmarshal([]byte(raw), &row))

	got := ToCommission(row)
	assert.Equal(t, domain.CommissionPaid, got.Status)
	assert.Equal(t, 100.0, got.Amount)
	assert.Equal(t, 10.0, got.WindfallAmount)
	assert.Zero(t, got.ShortfallAmount)
	assert.Equal(t, 110.0, got.TotalCommission)
	require.NotNil(t, got.PaidAt)

	assert.Equal(t, domain.CommissionPending, ToCommission(CommissionRow{}).Status)
}

func TestToProfile_UnknownRoleIsAttendant(t *testing.T) {
	p := ToProfile(ProfileRow{ID: "U1", Role: "superuser", DealerID: "D1"})
	assert.Equal(t, domain.RoleAttendant, p.Role)

	assert.Equal(t, domain.RoleAttendant, ToProfile(ProfileRow{ID: "U3", Role: "Station Manager"}).Role)

	p = ToProfile(ProfileRow{ID: "U2", Role: "station_manager", StationID: "S2"})
	assert.Equal(t, domain.RoleStationManager, p.Role)

	user := UserContext(p)
	assert.Equal(t, domain.UserContext{ID: "U2", Role: domain.RoleStationManager, StationID: "S2"}, user)
}

func TestMap(t *testing.T) {
	out := Map[SalesRow, domain.SalesRecord](nil, ToSalesRecord)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	out = Map([]SalesRow{{StationID: "S1", OpeningMeter: NewNumber(1), ClosingMeter: NewNumber(4)}}, ToSalesRecord)
	require.Len(t, out, 1)
	assert.Equal(t, 3.0, out[0].MeterDelta())
}
