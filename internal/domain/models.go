// backend-go/internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Station represents a fuel retail station in the directory
type Station struct {
	ID               string           `json:"id" db:"id"`
	Name             string           `json:"name" db:"name"`
	Code             string           `json:"code" db:"code"`
	City             string           `json:"city,omitempty" db:"city"`
	Region           string           `json:"region" db:"region"`
	OMCID            string           `json:"omc_id,omitempty" db:"omc_id"`
	DealerID         string           `json:"dealer_id,omitempty" db:"dealer_id"`
	ManagerID        string           `json:"manager_id,omitempty" db:"manager_id"`
	Status           StationStatus    `json:"status" db:"status"`
	ComplianceStatus ComplianceStatus `json:"compliance_status" db:"compliance_status"`
	TotalSales       float64          `json:"total_sales" db:"total_sales"`
	TotalViolations  int              `json:"total_violations" db:"total_violations"`
}

// Expense is a station expense awaiting or past approval
type Expense struct {
	ID              string          `json:"id" db:"id"`
	StationID       string          `json:"station_id" db:"station_id"`
	Category        string          `json:"category" db:"category"`
	Type            ExpenseType     `json:"type" db:"type"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Description     string          `json:"description,omitempty" db:"description"`
	ExpenseDate     time.Time       `json:"expense_date" db:"expense_date"`
	Status          ExpenseStatus   `json:"status" db:"status"`
	CreatedBy       string          `json:"created_by" db:"created_by"`
	ApprovedBy      string          `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty" db:"approved_at"`
	RejectionReason string          `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// SalesRecord is a pump meter reading pair for one shift or day
type SalesRecord struct {
	ID           string    `json:"id"`
	StationID    string    `json:"station_id"`
	ProductID    string    `json:"product_id,omitempty"`
	SaleDate     time.Time `json:"sale_date"`
	OpeningMeter float64   `json:"opening_meter"`
	ClosingMeter float64   `json:"closing_meter"`
	TotalAmount  float64   `json:"total_amount"`
}

// MeterDelta is the volume dispensed between the two meter readings.
func (s SalesRecord) MeterDelta() float64 {
	return s.ClosingMeter - s.OpeningMeter
}

// TankStock is a tank dip reading for one product on one day
type TankStock struct {
	ID           string    `json:"id"`
	StationID    string    `json:"station_id"`
	ProductID    string    `json:"product_id"`
	StockDate    time.Time `json:"stock_date"`
	OpeningStock float64   `json:"opening_stock"`
	ClosingStock float64   `json:"closing_stock"`
	// Deliveries is the stock received between the opening and closing dips.
	Deliveries float64 `json:"deliveries"`
}

// Consumed is the stock that left the tank between the two dips.
func (t TankStock) Consumed() float64 {
	return t.OpeningStock + t.Deliveries - t.ClosingStock
}

// CommissionRecord is a monthly commission statement line for a dealer
type CommissionRecord struct {
	ID        string `json:"id"`
	DealerID  string `json:"dealer_id"`
	StationID string `json:"station_id,omitempty"`
	// Month is "YYYY-MM" or a date starting with it.
	Month           string           `json:"month"`
	Amount          float64          `json:"amount"`
	WindfallAmount  float64          `json:"windfall_amount"`
	ShortfallAmount float64          `json:"shortfall_amount"`
	TotalCommission float64          `json:"total_commission"`
	Status          CommissionStatus `json:"status"`
	PaidAt          *time.Time       `json:"paid_at,omitempty"`
}

// UserProfile is the editable profile of a platform user
type UserProfile struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Role      Role      `json:"role" db:"role"`
	StationID string    `json:"station_id,omitempty" db:"station_id"`
	DealerID  string    `json:"dealer_id,omitempty" db:"dealer_id"`
	OMCID     string    `json:"omc_id,omitempty" db:"omc_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// StationFilter narrows a station directory listing
type StationFilter struct {
	Search           string `json:"search"`
	Region           string `json:"region"`
	Status           string `json:"status"`
	ComplianceStatus string `json:"compliance_status"`
}

// ExpenseFilter narrows an expense listing
type ExpenseFilter struct {
	StationID string `json:"station_id"`
	Status    string `json:"status"`
	Type      string `json:"type"`
	From      string `json:"from"`
	To        string `json:"to"`
}
