package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealerStation is a station joined with its figures for the current month
type DealerStation struct {
	Station
	CurrentSales   float64 `json:"current_sales"`
	StockLevel     float64 `json:"stock_level"`
	LossPercentage float64 `json:"loss_percentage"`
	CommissionRate float64 `json:"commission_rate"`
}

// FleetMetrics are the dealer/fleet-level totals shown on the dashboard cards
type FleetMetrics struct {
	MonthlySales      float64 `json:"monthly_sales"`
	StockBalance      float64 `json:"stock_balance"`
	AvgLossPercentage float64 `json:"avg_loss_percentage"`
	StationCount      int     `json:"station_count"`
}

// LossAnalysis is the unaccounted stock of one station over the period
type LossAnalysis struct {
	StationID            string  `json:"station_id"`
	TotalVolumeSold      float64 `json:"total_volume_sold"`
	TotalVolumeStocked   float64 `json:"total_volume_stocked"`
	ExpectedClosingStock float64 `json:"expected_closing_stock"`
	ActualClosingStock   float64 `json:"actual_closing_stock"`
	VolumeLoss           float64 `json:"volume_loss"`
	LossPercentage       float64 `json:"loss_percentage"`
	Period               string  `json:"period"`
	ProductType          string  `json:"product_type"`
}

// ProgressiveCommission is one day of month-to-date commission progress
type ProgressiveCommission struct {
	Date                 time.Time `json:"date"`
	Volume               float64   `json:"volume"`
	CommissionEarned     float64   `json:"commission_earned"`
	CumulativeCommission float64   `json:"cumulative_commission"`
	CumulativeVolume     float64   `json:"cumulative_volume"`
	DayOfMonth           int       `json:"day_of_month"`
	TankDipCount         int       `json:"tank_dip_count"`
	OpeningStock         float64   `json:"opening_stock"`
	ClosingStock         float64   `json:"closing_stock"`
	ReceivedStock        float64   `json:"received_stock"`
	IsToday              bool      `json:"is_today"`
}

// CommissionBreakdown splits commission into its source components
type CommissionBreakdown struct {
	Base      float64 `json:"base"`
	Windfall  float64 `json:"windfall"`
	Shortfall float64 `json:"shortfall"`
	Total     float64 `json:"total"`
}

// CommissionStats aggregates every commission record of a dealer
type CommissionStats struct {
	TotalCommission          float64             `json:"total_commission"`
	PaidCommission           float64             `json:"paid_commission"`
	PendingCommission        float64             `json:"pending_commission"`
	CurrentMonthCommission   float64             `json:"current_month_commission"`
	PreviousMonthCommission  float64             `json:"previous_month_commission"`
	MonthOverMonthChange     float64             `json:"month_over_month_change"`
	Overall                  CommissionBreakdown `json:"overall"`
	CurrentMonth             CommissionBreakdown `json:"current_month"`
	PreviousMonth            CommissionBreakdown `json:"previous_month"`
	CurrentMonthProgress     float64             `json:"current_month_progress"`
	EstimatedFinalCommission float64             `json:"estimated_final_commission"`
	RecordCount              int                 `json:"record_count"`
}

// DealerDashboard is everything the dealer dashboard renders in one load
type DealerDashboard struct {
	Period          string           `json:"period"`
	Stations        []DealerStation  `json:"stations"`
	Metrics         FleetMetrics     `json:"metrics"`
	Losses          []LossAnalysis   `json:"losses"`
	CommissionStats *CommissionStats `json:"commission_stats,omitempty"`
	Permissions     RolePermissions  `json:"permissions"`
	Warnings        []string         `json:"warnings"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// ExpenseSummary totals a visible expense set by status and type
type ExpenseSummary struct {
	Count    int                               `json:"count"`
	Total    decimal.Decimal                   `json:"total"`
	ByStatus map[ExpenseStatus]decimal.Decimal `json:"by_status"`
	ByType   map[ExpenseType]decimal.Decimal   `json:"by_type"`
}
