package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleStations() []domain.Station {
	return []domain.Station{
		{ID: "S2", Name: "Harbour", Code: "HB", Region: "Tema", Status: domain.StationActive, ComplianceStatus: domain.Compliant, TotalSales: 1234.5},
		{ID: "S1", Name: "Airport", Code: "AP", Region: "Accra", Status: domain.StationInactive, ComplianceStatus: domain.UnderReview, TotalViolations: 2},
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatCSV, "CSV": FormatCSV, "json": FormatJSON, " xlsx ": FormatXLSX, "excel": FormatXLSX}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestEncodeCSV_PreservesOrder(t *testing.T) {
	data, err := Encode(FormatCSV, Stations(sampleStations()))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, stationHeader, records[0])
	assert.Equal(t, "S2", records[1][0])
	assert.Equal(t, "1234.50", records[1][10])
	assert.Equal(t, "S1", records[2][0])
	assert.Equal(t, "2", records[2][11])
}

func TestEncodeJSON_PassesRecordsThrough(t *testing.T) {
	data, err := Encode(FormatJSON, Stations(sampleStations()))
	require.NoError(t, err)

	var decoded []domain.Station
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleStations(), decoded)

	empty, err := Encode(FormatJSON, Stations(nil))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(empty))
}

func TestEncodeCSV_Expenses(t *testing.T) {
	approvedAt := time.Date(2026, time.October, 3, 10, 0, 0, 0, time.UTC)
	expenses := []domain.Expense{
		{ID: "E1", StationID: "S1", Category: "generator", Type: domain.ExpenseMaintenance, Amount: decimal.RequireFromString("1500.5"),
			ExpenseDate: time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC), Status: domain.ExpenseApproved, CreatedBy: "M1",
			ApprovedBy: "D-U1", ApprovedAt: &approvedAt},
		{ID: "E2", StationID: "S1", Category: "wages", Type: domain.ExpenseStaff, Amount: decimal.NewFromInt(200), Status: domain.ExpensePending},
	}

	data, err := Encode(FormatCSV, Expenses(expenses))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "1500.50", records[1][4])
	assert.Equal(t, "2026-10-02 00:00:00", records[1][6])
	assert.Equal(t, "2026-10-03 10:00:00", records[1][10])
	assert.Equal(t, "", records[2][6])
	assert.Equal(t, "", records[2][10])
}

func TestEncodeXLSX(t *testing.T) {
	data, err := Encode(FormatXLSX, Stations(sampleStations()))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Stations"}, f.GetSheetList())
	rows, err := f.GetRows("Stations")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "S2", rows[1][0])
	assert.Equal(t, "Airport", rows[2][1])
}

func TestFilenameAndContentType(t *testing.T) {
	at := time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "expenses_20261014.xlsx", Filename(Expenses(nil), FormatXLSX, at))
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
}
