// Package export serialises loaded station and expense record sets as CSV,
// JSON or XLSX. It never reshapes a record set; rows come out in input order.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat parses a format label; an empty label is csv.
func ParseFormat(label string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(label))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", label)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

func (f Format) Extension() string {
	return string(f)
}

// Dataset is a record set ready for export. Records is what the json format
// encodes; Header and Rows feed the tabular formats.
type Dataset struct {
	Name    string
	Header  []string
	Rows    [][]any
	Records any
}

// Encode serialises ds in format f.
func Encode(f Format, ds Dataset) ([]byte, error) {
	switch f {
	case FormatCSV:
		return encodeCSV(ds)
	case FormatJSON:
		return json.MarshalIndent(ds.Records, "", "  ")
	case FormatXLSX:
		return encodeXLSX(ds)
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}

// Filename is the download name of ds in format f, stamped with at.
func Filename(ds Dataset, f Format, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", ds.Name, at.Format("20060102"), f.Extension())
}

var stationHeader = []string{
	"ID", "Name", "Code", "City", "Region", "OMC ID", "Dealer ID", "Manager ID",
	"Status", "Compliance Status", "Total Sales", "Total Violations",
}

func Stations(stations []domain.Station) Dataset {
	rows := make([][]any, 0, len(stations))
	for _, s := range stations {
		rows = append(rows, []any{
			s.ID, s.Name, s.Code, s.City, s.Region, s.OMCID, s.DealerID, s.ManagerID,
			string(s.Status), string(s.ComplianceStatus), s.TotalSales, s.TotalViolations,
		})
	}
	if stations == nil {
		stations = []domain.Station{}
	}
	return Dataset{Name: "stations", Header: stationHeader, Rows: rows, Records: stations}
}

var expenseHeader = []string{
	"ID", "Station ID", "Category", "Type", "Amount", "Description", "Expense Date",
	"Status", "Created By", "Approved By", "Approved At", "Rejection Reason",
}

func Expenses(expenses []domain.Expense) Dataset {
	rows := make([][]any, 0, len(expenses))
	for _, e := range expenses {
		var approvedAt any = ""
		if e.ApprovedAt != nil {
			approvedAt = *e.ApprovedAt
		}
		rows = append(rows, []any{
			e.ID, e.StationID, e.Category, string(e.Type), e.Amount, e.Description, e.ExpenseDate,
			string(e.Status), e.CreatedBy, e.ApprovedBy, approvedAt, e.RejectionReason,
		})
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return Dataset{Name: "expenses", Header: expenseHeader, Rows: rows, Records: expenses}
}

func encodeCSV(ds Dataset) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(ds.Header); err != nil {
		return nil, err
	}
	for _, row := range ds.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = textValue(v)
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func textValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', 2, 64)
	case int:
		return strconv.Itoa(val)
	case decimal.Decimal:
		return val.StringFixed(2)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(val)
	}
}

// cellValue keeps numbers numeric in the sheet.
func cellValue(v any) any {
	switch val := v.(type) {
	case decimal.Decimal:
		return val.InexactFloat64()
	case time.Time:
		return textValue(val)
	default:
		return v
	}
}

func encodeXLSX(ds Dataset) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Export"
	if ds.Name != "" {
		sheet = strings.ToUpper(ds.Name[:1]) + ds.Name[1:]
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range ds.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for r, row := range ds.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = cellValue(v)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	return buf.Bytes(), nil
}
