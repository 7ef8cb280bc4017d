package transform

import (
	"strings"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/permission"
)

// StationRow is a station as sent by the API or stored in the stations table.
type StationRow struct {
	ID               Text   `json:"id" db:"id"`
	Name             Text   `json:"name" db:"name"`
	Code             Text   `json:"code" db:"code"`
	City             Text   `json:"city" db:"city"`
	Region           Text   `json:"region" db:"region"`
	OMCID            Text   `json:"omc_id" db:"omc_id"`
	DealerID         Text   `json:"dealer_id" db:"dealer_id"`
	ManagerID        Text   `json:"manager_id" db:"manager_id"`
	Status           Text   `json:"status" db:"status"`
	ComplianceStatus Text   `json:"compliance_status" db:"compliance_status"`
	TotalSales       Number `json:"total_sales" db:"total_sales"`
	TotalViolations  Number `json:"total_violations" db:"total_violations"`
}

type SalesRow struct {
	ID           Text   `json:"id" db:"id"`
	StationID    Text   `json:"station_id" db:"station_id"`
	ProductID    Text   `json:"product_id" db:"product_id"`
	SaleDate     Time   `json:"sale_date" db:"sale_date"`
	OpeningMeter Number `json:"opening_meter" db:"opening_meter"`
	ClosingMeter Number `json:"closing_meter" db:"closing_meter"`
	TotalAmount  Number `json:"total_amount" db:"total_amount"`
}

// TankStockRow is a tank dip. Older payloads name deliveries received_stock.
type TankStockRow struct {
	ID            Text    `json:"id" db:"id"`
	StationID     Text    `json:"station_id" db:"station_id"`
	ProductID     Text    `json:"product_id" db:"product_id"`
	StockDate     Time    `json:"stock_date" db:"stock_date"`
	OpeningStock  Number  `json:"opening_stock" db:"opening_stock"`
	ClosingStock  Number  `json:"closing_stock" db:"closing_stock"`
	Deliveries    *Number `json:"deliveries" db:"deliveries"`
	ReceivedStock *Number `json:"received_stock" db:"received_stock"`
}

type CommissionRow struct {
	ID              Text   `json:"id" db:"id"`
	DealerID        Text   `json:"dealer_id" db:"dealer_id"`
	StationID       Text   `json:"station_id" db:"station_id"`
	Month           Text   `json:"month" db:"month"`
	Amount          Number `json:"amount" db:"amount"`
	WindfallAmount  Number `json:"windfall_amount" db:"windfall_amount"`
	ShortfallAmount Number `json:"shortfall_amount" db:"shortfall_amount"`
	TotalCommission Number `json:"total_commission" db:"total_commission"`
	Status          Text   `json:"status" db:"status"`
	PaidAt          Time   `json:"paid_at" db:"paid_at"`
}

type ExpenseRow struct {
	ID              Text   `json:"id" db:"id"`
	StationID       Text   `json:"station_id" db:"station_id"`
	Category        Text   `json:"category" db:"category"`
	Type            Text   `json:"type" db:"type"`
	Amount          Number `json:"amount" db:"amount"`
	Description     Text   `json:"description" db:"description"`
	ExpenseDate     Time   `json:"expense_date" db:"expense_date"`
	Status          Text   `json:"status" db:"status"`
	CreatedBy       Text   `json:"created_by" db:"created_by"`
	ApprovedBy      Text   `json:"approved_by" db:"approved_by"`
	ApprovedAt      Time   `json:"approved_at" db:"approved_at"`
	RejectionReason Text   `json:"rejection_reason" db:"rejection_reason"`
	CreatedAt       Time   `json:"created_at" db:"created_at"`
}

type ProfileRow struct {
	ID        Text `json:"id" db:"id"`
	FullName  Text `json:"full_name" db:"full_name"`
	Email     Text `json:"email" db:"email"`
	Phone     Text `json:"phone" db:"phone"`
	Role      Text `json:"role" db:"role"`
	StationID Text `json:"station_id" db:"station_id"`
	DealerID  Text `json:"dealer_id" db:"dealer_id"`
	OMCID     Text `json:"omc_id" db:"omc_id"`
	CreatedAt Time `json:"created_at" db:"created_at"`
}

// StationStatus maps a label to a station status: empty is active and an
// unknown label is inactive.
func StationStatus(label string) domain.StationStatus {
	if strings.TrimSpace(label) == "" {
		return domain.StationActive
	}
	if s, ok := domain.ParseStationStatus(label); ok {
		return s
	}
	return domain.StationInactive
}

// ComplianceStatus maps a label to a compliance status, under_review when unknown.
func ComplianceStatus(label string) domain.ComplianceStatus {
	if s, ok := domain.ParseComplianceStatus(label); ok {
		return s
	}
	return domain.UnderReview
}

// ExpenseStatus maps a label to an expense status, pending when unknown.
func ExpenseStatus(label string) domain.ExpenseStatus {
	if s, ok := domain.ParseExpenseStatus(label); ok {
		return s
	}
	return domain.ExpensePending
}

// ExpenseType maps a label to an expense type, other when unknown.
func ExpenseType(label string) domain.ExpenseType {
	if t, ok := domain.ParseExpenseType(label); ok {
		return t
	}
	return domain.ExpenseOther
}

// CommissionStatus lowercases a label; empty is pending.
func CommissionStatus(label string) domain.CommissionStatus {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return domain.CommissionPending
	}
	return domain.CommissionStatus(label)
}

// Role maps a label to a role through the permission resolver, so an unknown
// label becomes attendant.
func Role(label string) domain.Role {
	return permission.EffectiveRole(domain.Role(label))
}

func ToStation(r StationRow) domain.Station {
	return domain.Station{
		ID:               r.ID.String(),
		Name:             r.Name.String(),
		Code:             r.Code.String(),
		City:             r.City.String(),
		Region:           r.Region.String(),
		OMCID:            r.OMCID.String(),
		DealerID:         r.DealerID.String(),
		ManagerID:        r.ManagerID.String(),
		Status:           StationStatus(r.Status.String()),
		ComplianceStatus: ComplianceStatus(r.ComplianceStatus.String()),
		TotalSales:       r.TotalSales.Float64(),
		TotalViolations:  r.TotalViolations.Int(),
	}
}

func ToSalesRecord(r SalesRow) domain.SalesRecord {
	return domain.SalesRecord{
		ID:           r.ID.String(),
		StationID:    r.StationID.String(),
		ProductID:    r.ProductID.String(),
		SaleDate:     r.SaleDate.Time,
		OpeningMeter: r.OpeningMeter.Float64(),
		ClosingMeter: r.ClosingMeter.Float64(),
		TotalAmount:  r.TotalAmount.Float64(),
	}
}

// ToTankStock converts a dip; deliveries wins over received_stock when both are set.
func ToTankStock(r TankStockRow) domain.TankStock {
	var deliveries float64
	switch {
	case r.Deliveries != nil:
		deliveries = r.Deliveries.Float64()
	case r.ReceivedStock != nil:
		deliveries = r.ReceivedStock.Float64()
	}

	return domain.TankStock{
		ID:           r.ID.String(),
		StationID:    r.StationID.String(),
		ProductID:    r.ProductID.String(),
		StockDate:    r.StockDate.Time,
		OpeningStock: r.OpeningStock.Float64(),
		ClosingStock: r.ClosingStock.Float64(),
		Deliveries:   deliveries,
	}
}

func ToCommission(r CommissionRow) domain.CommissionRecord {
	return domain.CommissionRecord{
		ID:              r.ID.String(),
		DealerID:        r.DealerID.String(),
		StationID:       r.StationID.String(),
		Month:           r.Month.String(),
		Amount:          r.Amount.Float64(),
		WindfallAmount:  r.WindfallAmount.Float64(),
		ShortfallAmount: r.ShortfallAmount.Float64(),
		TotalCommission: r.TotalCommission.Float64(),
		Status:          CommissionStatus(r.Status.String()),
		PaidAt:          r.PaidAt.Ptr(),
	}
}

func ToExpense(r ExpenseRow) domain.Expense {
	return domain.Expense{
		ID:              r.ID.String(),
		StationID:       r.StationID.String(),
		Category:        r.Category.String(),
		Type:            ExpenseType(r.Type.String()),
		Amount:          r.Amount.Decimal(),
		Description:     r.Description.String(),
		ExpenseDate:     r.ExpenseDate.Time,
		Status:          ExpenseStatus(r.Status.String()),
		CreatedBy:       r.CreatedBy.String(),
		ApprovedBy:      r.ApprovedBy.String(),
		ApprovedAt:      r.ApprovedAt.Ptr(),
		RejectionReason: r.RejectionReason.String(),
		CreatedAt:       r.CreatedAt.Time,
	}
}

func ToProfile(r ProfileRow) domain.UserProfile {
	return domain.UserProfile{
		ID:        r.ID.String(),
		FullName:  r.FullName.String(),
		Email:     r.Email.String(),
		Phone:     r.Phone.String(),
		Role:      Role(r.Role.String()),
		StationID: r.StationID.String(),
		DealerID:  r.DealerID.String(),
		OMCID:     r.OMCID.String(),
		CreatedAt: r.CreatedAt.Time,
	}
}

// UserContext derives the caller identity from a profile.
func UserContext(p domain.UserProfile) domain.UserContext {
	return domain.UserContext{
		ID:        p.ID,
		Role:      permission.EffectiveRole(p.Role),
		OMCID:     p.OMCID,
		DealerID:  p.DealerID,
		StationID: p.StationID,
	}
}

// Map converts every row with fn; a nil input yields an empty, non-nil slice.
func Map[R, T any](rows []R, fn func(R) T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}
